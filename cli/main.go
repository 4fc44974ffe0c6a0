package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
)

var (
	cmd        = flag.String("cmd", "suggest", "Command: suggest, adjust, adjustment, health")
	file       = flag.String("file", "", "Path to the order request JSON (suggest)")
	recipe     = flag.String("recipe", "", "Recipe ID (adjust, adjustment)")
	kind       = flag.String("kind", "rupture", "Adjustment kind: rupture or waste")
	multiplier = flag.Float64("multiplier", 1.0, "Adjustment multiplier (adjust)")
)

func main() {
	flag.Parse()
	client := NewApiClient()

	switch *cmd {
	case "health":
		ok, err := client.CheckHealth()
		if err != nil || !ok {
			fmt.Fprintf(os.Stderr, "API at %s is not available: %v\n", client.BaseURL, err)
			os.Exit(1)
		}
		fmt.Println("ok")

	case "suggest":
		if *file == "" {
			fmt.Fprintln(os.Stderr, "suggest requires -file with the order request JSON")
			os.Exit(1)
		}
		payload, err := os.ReadFile(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", *file, err)
			os.Exit(1)
		}
		result, err := client.GenerateSuggestions(payload)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		printJSON(result)

	case "adjustment":
		if *recipe == "" {
			fmt.Fprintln(os.Stderr, "adjustment requires -recipe")
			os.Exit(1)
		}
		result, err := client.GetAdjustment(*recipe)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		printJSON(result)

	case "adjust":
		if *recipe == "" {
			fmt.Fprintln(os.Stderr, "adjust requires -recipe")
			os.Exit(1)
		}
		if err := client.UpdateAdjustment(*recipe, *kind, *multiplier); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("adjustment %s=%.2f applied to %s\n", *kind, *multiplier, *recipe)

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", *cmd)
		os.Exit(1)
	}
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
