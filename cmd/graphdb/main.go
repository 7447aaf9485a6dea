// Command graphdb is the interactive query console for the graph storage
// engine. It opens one worker's store files, builds a GraphEngine over
// them, and reads queries from stdin line by line, dispatching each
// through internal/dbfs and printing its result.
//
// Usage:
//
//	graphdb --config configs/config.json --db-path db/
//
// Both flags are optional: --config falls back to
// config.DefaultConfigPath (and a missing file to config.Default()),
// and --db-path overrides whatever db_path the config document names.
//
// Session behavior:
//   - The first query of a session must be "create graph: <label>";
//     every other query is rejected until a graph exists.
//   - "/help" prints the query grammar; "exit" or EOF ends the session.
//   - "dump" renders the current graph as Graphviz DOT via internal/dbfs.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dreamware/graphdb/internal/config"
	"github.com/dreamware/graphdb/internal/dbfs"
	"github.com/dreamware/graphdb/internal/engine"
	"github.com/dreamware/graphdb/internal/store"
)

const help = "Query examples:\n" +
	"create graph: label\n" +
	"create node: label\n" +
	"create node: label key:value\n" +
	"create relationship: label from label1 to label2\n" +
	"create relationship: label from id:0 to id:1 key:value\n" +
	"match node: label\n" +
	"match node: id:0\n" +
	"match node: key=value\n" +
	"match node: key<value\n" +
	"match relationship: key>=value\n" +
	"match graph:\n" +
	"update node: id:0 key:value\n" +
	"delete node: id:0\n" +
	"delete relationship: id:0\n" +
	"dump\n" +
	"'exit' to close\n"

// main builds the cobra command tree and executes it, printing any error
// to stderr and exiting 1 on failure.
//
// Flags:
//   - --config: path to the manager/worker config document.
//   - --db-path: worker directory root, overriding the config's db_path.
func main() {
	var configPath, dbPath string

	root := &cobra.Command{
		Use:           "graphdb",
		Short:         "Interactive console for the graph storage engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, dbPath)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to the manager/worker config document")
	root.Flags().StringVar(&dbPath, "db-path", "", "worker directory root, overriding the config's db_path")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads the config, opens worker 0's store files, opens a GraphEngine
// over them, and drives the read-eval-print loop against stdin until EOF
// or an "exit" line.
//
// Parameters:
//   - configPath: path to the config document, or "" to use the default.
//   - dbPath: overrides the config's db_path when non-empty.
//
// Returns:
//   - nil on a clean EOF exit, or the first unrecoverable error (config
//     load failure, store open failure, logger construction failure, or
//     a scanner error on stdin).
func run(configPath, dbPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	worker := cfg.Manager.Workers[0]
	dir := cfg.WorkerDir(0)

	log, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer log.Sync()

	stores, err := store.Open(afero.NewOsFs(), dir, config.WorkerStores(worker))
	if err != nil {
		return err
	}
	defer stores.Close()

	e := engine.Open(stores, log)
	defer e.Close()

	log.Info("worker ready", zap.String("instance_id", stores.InstanceID()), zap.String("dir", dir))
	fmt.Printf("Welcome to Graph DB.\n\nYou can enter /help to see query examples.\n")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.Contains(line, "/help") {
			fmt.Print(help)
			continue
		}
		if line == "exit" {
			break
		}
		if !strings.HasPrefix(line, "create graph") && e.GetGraph().Name == "" {
			fmt.Println("you have to create a graph first using 'create graph: label'")
			continue
		}
		if strings.HasPrefix(line, "create graph") && e.GetGraph().Name != "" {
			fmt.Printf("you have already created a graph called %q\n", e.GetGraph().Name)
			continue
		}

		out, err := dbfs.Execute(e, line)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
	return scanner.Err()
}
