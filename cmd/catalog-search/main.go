/*
Package main is the entry point for the catalog-search CLI.

catalog-search ranks a small curated catalog of mixed Chinese/English
records against a free-text query.

Usage:
  catalog-search [command]

Available Commands:
  init        Create a config file and a sample catalog
  search      Search the catalog
  suggest     Autocomplete a partial query
  segment     Show how text is split into search tokens
  list        List catalog records
  add         Add a record to the catalog
  remove      Remove a record from the catalog
  verify      Verify configuration and catalog
  export      Export the catalog as JSON or YAML
  serve       Run the MCP server (stdio transport)
  http        Serve the HTTP API
  history     Show search history statistics
  benchmark   Measure search relevance (and speed)
  version     Show version information

Examples:
  # Create ~/.catalog-search.json and a sample catalog
  catalog-search init

  # Search
  catalog-search search 碳中和

  # Run as MCP server
  catalog-search serve
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/khanglvm/catalog-search/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
