package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/lookbusy1344/arm-assembler/config"
	"github.com/lookbusy1344/arm-assembler/encoder"
	"github.com/lookbusy1344/arm-assembler/parser"
	"github.com/lookbusy1344/arm-assembler/tui"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

// ANSI styles for the listing when writing to a terminal
const (
	styleGrey  = "\x1b[90m"
	styleGreen = "\x1b[32m"
	styleReset = "\x1b[0m"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		noColor     = flag.Bool("no-color", false, "Disable colored output")
		tuiMode     = flag.Bool("tui", false, "Open the listing in an interactive viewer")
		configPath  = flag.String("config", "", "Config file path (default: platform config dir)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("ARM assembler %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file>\n", os.Args[0])
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	content, err := os.ReadFile(flag.Arg(0)) // #nosec G304 -- user supplied source path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Println("No such file or directory.")
		} else {
			fmt.Println("Unable to read file.")
		}
		os.Exit(1)
	}

	tokens, err := parser.NewLexer(string(content)).Tokenize()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if len(tokens) == 0 {
		fmt.Fprintln(os.Stderr, "at least one argument expected")
		os.Exit(1)
	}

	lines, lineCount, err := encoder.Assemble(tokens)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if *tuiMode || cfg.TUI.Enabled {
		if err := tui.NewViewer(lines, cfg.TUI.AccentName).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	color := cfg.Display.ColorOutput && !*noColor && term.IsTerminal(int(os.Stdout.Fd()))
	width := len(strconv.Itoa(lineCount))
	for _, line := range lines {
		fmt.Println(formatLine(line, width, color))
	}
}

// loadConfig reads the config file at path, or the platform default when
// path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// formatLine renders one listing line: the right-aligned source line number,
// a separator, the machine word in hex, then the re-emitted source tokens.
func formatLine(line encoder.EncodedLine, width int, color bool) string {
	prefix := fmt.Sprintf("%*d | ", width, line.Line)
	hex := fmt.Sprintf("%08x", line.Word)

	if color {
		prefix = styleGrey + prefix + styleReset
		hex = styleGreen + hex + styleReset
	}

	return prefix + hex + " " + line.Source()
}

func printHelp() {
	fmt.Println("ARM assembler - assembles ARM A32 source into machine words")
	fmt.Println()
	fmt.Printf("Usage: %s [options] <file>\n", os.Args[0])
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Each successfully encoded instruction is printed as")
	fmt.Println("  <line> | <word> <source>")
	fmt.Println("where <word> is the 32-bit encoding in lowercase hex.")
}
