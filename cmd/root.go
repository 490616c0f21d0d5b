package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gitavk/ktile/internal/config"
	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/controller"
	"github.com/gitavk/ktile/pkg/logging"
)

var (
	flagKubeconfig string
	flagContext    string
	flagNamespace  string
	flagLogFile    string
	flagDebug      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ktile",
	Short: "A tiling terminal dashboard for Kubernetes",
	Long: `ktile is a terminal dashboard for Kubernetes clusters. It tiles
resource tables, log tails, shells and exec sessions into split panes
across workspace tabs, keeps every table live through watches, and
drives everything from the keyboard.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. a bad kubeconfig or an unreachable cluster)
	SilenceUsage: true,
	RunE:         runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logging.Init(logFilePath(), flagDebug)
	defer logging.Close()

	program, err := controller.NewProgram(cfg, kube.Options{
		Kubeconfig: flagKubeconfig,
		Context:    flagContext,
		Namespace:  flagNamespace,
	})
	if err != nil {
		return err
	}
	_, err = program.Run()
	return err
}

// logFilePath resolves the log destination: the --log-file flag if given,
// else a rotating file under the user config dir. Stdout belongs to the
// TUI, so there is no terminal fallback.
func logFilePath() string {
	if flagLogFile != "" {
		return flagLogFile
	}
	dir, err := config.GetUserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ktile.log")
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v // Set cobra's version field as well
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Set up version template
	rootCmd.SetVersionTemplate(`{{printf "ktile version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	// Persistent so `ktile mcp` serves the same cluster the TUI would show.
	rootCmd.PersistentFlags().StringVar(&flagKubeconfig, "kubeconfig", "", "path to the kubeconfig file (default: $KUBECONFIG, then ~/.kube/config)")
	rootCmd.PersistentFlags().StringVar(&flagContext, "context", "", "kubeconfig context to use instead of the current one")
	rootCmd.PersistentFlags().StringVarP(&flagNamespace, "namespace", "n", "", "namespace to start in")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "log file path (default: ktile.log under the user config dir)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug-level logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
	rootCmd.AddCommand(newMCPCmd())
}
