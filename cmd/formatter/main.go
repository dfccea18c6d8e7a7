// Package main realigns the tables of markdown reports, re-signing signed ones.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"saludcl/internal/formatter"
	"saludcl/internal/validator"
)

func main() {
	targetPath := flag.String("path", ".", "Path to file or directory to format")
	write := flag.Bool("write", false, "Write changes to file (default: false, dry-run)")
	check := flag.Bool("validate", true, "Report structural problems in each file")

	flag.Parse()

	fmt.Printf("📂 Scanning path: %s\n", *targetPath)

	if *write {
		fmt.Println("✍️  Write mode ENABLED (files will be modified)")
	} else {
		fmt.Println("👀 Dry-run mode (no changes will be written)")
	}

	fmt.Println()

	var count, changed, failed int

	v := validator.NewReportValidator()

	err := filepath.WalkDir(*targetPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Printf("❌ Error accessing path %s: %v\n", path, err)

			failed++

			return nil
		}

		if d.IsDir() {
			name := d.Name()
			if name != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}

			return nil
		}

		if strings.ToLower(filepath.Ext(path)) != ".md" {
			return nil
		}

		count++

		wasChanged, procErr := processFile(path, *write, *check, v)

		switch {
		case procErr != nil:
			fmt.Printf("❌ Failed to process %s: %v\n", path, procErr)

			failed++
		case wasChanged && *write:
			changed++

			fmt.Printf("✅ Formatted: %s\n", path)
		case wasChanged:
			changed++

			fmt.Printf("📝 Would format: %s\n", path)
		}

		return nil
	})
	if err != nil {
		log.Fatalf("❌ Error walking path: %v\n", err)
	}

	fmt.Println("\n----------------------------------------------------------------")
	fmt.Printf("📈 Summary:\n")
	fmt.Printf("  Scanned: %d files\n", count)
	fmt.Printf("  Changed: %d files\n", changed)
	fmt.Printf("  Errors:  %d\n", failed)

	if changed > 0 && !*write {
		fmt.Println("\n💡 Run with -write to apply changes.")
		os.Exit(1)
	}
}

func processFile(path string, write, check bool, v *validator.ReportValidator) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	original := string(content)

	formatted, err := formatter.FormatMarkdown(original)
	if err != nil {
		return false, err
	}

	if check {
		if res := v.Validate(formatted); !res.IsValid {
			fmt.Printf("⚠️  %s: %s\n", path, res)
		}
	}

	if strings.TrimRight(formatted, "\n") == strings.TrimRight(original, "\n") {
		return false, nil
	}

	if write {
		if err := os.WriteFile(path, []byte(formatted+"\n"), 0o644); err != nil {
			return false, err
		}
	}

	return true, nil
}
