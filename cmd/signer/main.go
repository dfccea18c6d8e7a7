// Package main signs or verifies the metadata block of a markdown report.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"saludcl/internal/formatter"
	"saludcl/internal/validator"
	"saludcl/pkg/metadata"
)

func main() {
	sign := flag.String("sign", "", "Realign tables and re-sign this report")
	verify := flag.String("verify", "", "Verify this report's hash")

	flag.Parse()

	switch {
	case *verify != "":
		runVerify(*verify)
	case *sign != "":
		runSign(*sign)
	default:
		fmt.Println("Usage: signer -verify <file.md> | -sign <file.md>")
		flag.PrintDefaults()
		os.Exit(1)
	}
}

func runVerify(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Error reading file: %v\n", err)
	}

	meta, err := metadata.Verify(string(content))
	if err != nil {
		log.Fatalf("❌ Verification failed: %v\n", err)
	}

	fmt.Printf("✅ %s is intact\n", path)
	fmt.Printf("   records: %d (limit %d)\n", meta.Records, meta.Limit)
	if !meta.FetchedAt.IsZero() {
		fmt.Printf("   fetched: %s\n", meta.FetchedAt.Format("2006-01-02 15:04:05 MST"))
	}

	fmt.Printf("   generated: %s\n", meta.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
}

func runSign(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Error reading file: %v\n", err)
	}

	text := string(content)

	fmt.Println("🔍 Validating report structure...")

	result := validator.NewReportValidator().Validate(text)
	result.PrintWarnings()

	if !result.IsValid {
		result.PrintErrors()
		log.Fatalf("❌ Skipping signature due to validation failure: %s\n", result)
	}

	fmt.Println(result.String())

	if meta, _ := metadata.Extract(text); meta == nil {
		text = metadata.Sign(text, metadata.Metadata{})
	}

	formatted, err := formatter.FormatMarkdown(text)
	if err != nil {
		log.Fatalf("❌ Formatting failed: %v\n", err)
	}

	if err := os.WriteFile(path, []byte(formatted+"\n"), 0o644); err != nil {
		log.Fatalf("Error writing file: %v\n", err)
	}

	fmt.Printf("✅ Signed and saved to: %s\n", path)
}
