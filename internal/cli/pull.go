package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/boxpull/boxpull"
	"github.com/boxpull/boxpull/internal/slogger"
	"github.com/boxpull/boxpull/internal/term"
	"github.com/boxpull/boxpull/registry"
)

var accent = color.New(color.Bold, color.Faint).SprintFunc()

// pullFlags holds the flag values for one pull invocation.
type pullFlags struct {
	output      string
	plainHTTP   bool
	verify      bool
	maxParallel int
}

func newPullCmd() *cobra.Command {
	var flags pullFlags

	cmd := &cobra.Command{
		Use:   "pull IMAGE",
		Short: "Download an image's layer blobs to a directory",
		Long: `Download all layer blobs of an image to a directory, one file per layer
named by digest with ':' replaced by '_'.

IMAGE has the form [registry/]repository[:tag|@digest]; the registry
defaults to docker.io and the tag to latest. Without --output a fresh
temporary directory is created and its path printed to stdout; the
directory is kept after exit so the blobs can be inspected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPull(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "directory to write layer blobs to (default: fresh temp dir)")
	cmd.Flags().BoolVar(&flags.plainHTTP, "plain-http", false, "use HTTP instead of HTTPS for the registry")
	cmd.Flags().BoolVar(&flags.verify, "verify", false, "verify each downloaded blob against its declared digest")
	cmd.Flags().IntVar(&flags.maxParallel, "max-parallel", 0, "cap concurrent layer downloads (0 = unlimited)")

	return cmd
}

func runPull(ctx context.Context, image string, flags pullFlags) error {
	logger := slogger.New(slogger.Config{Verbosity: verbosity})

	ref, err := boxpull.ParseRef(image)
	if err != nil {
		return err
	}

	auth := boxpull.SelectAuth(viper.GetString("username"), viper.GetString("password"))
	logger.Debug("selected authentication", "auth", auth.String())

	out, err := resolveOutput(flags.output)
	if err != nil {
		return err
	}

	rcOpts := []registry.Option{
		registry.WithLogger(logger),
		registry.WithPlainHTTP(flags.plainHTTP),
	}
	if !auth.IsAnonymous() {
		rcOpts = append(rcOpts, registry.WithBasicAuth(auth.Username, auth.Password))
	}
	puller := boxpull.NewPuller(
		boxpull.WithRegistryClient(registry.New(rcOpts...)),
		boxpull.WithLogger(logger),
	)

	fmt.Fprintf(os.Stderr, "%sResolving manifest for %s...", term.EmojiMagnifier, accent(ref.Name()))
	manifest, manifestDigest, err := puller.Resolve(ctx, ref)
	if err != nil {
		fmt.Fprintln(os.Stderr)
		return err
	}
	fmt.Fprintf(os.Stderr, " resolved manifest: %s\n", accent(manifestDigest))

	layerCount := len(manifest.Layers)
	fmt.Fprintf(os.Stderr, "%sPulling %s %s...\n",
		term.EmojiTruck,
		accent(fmt.Sprintf("%d", layerCount)),
		term.Pluralize("layer", "", "s", layerCount),
	)

	renderer := term.NewRenderer(os.Stderr)
	renderer.Start()
	opts := append(pullOptions(flags), boxpull.WithProgress(renderer.Observe))
	files, err := puller.PullLayers(ctx, ref, manifest.Layers, out.Path, opts...)
	renderer.Stop()
	if err != nil {
		return err
	}

	var total int64
	for _, f := range files {
		total += f.Size
	}
	fmt.Fprintf(os.Stderr, "%sPulled %s to %s\n",
		term.EmojiPackage,
		accent(term.FormatBytes(total)),
		accent(out.Path),
	)
	return nil
}

// resolveOutput resolves the destination directory and, when a temporary
// directory was created, prints its path to stdout so the caller can
// find the blobs later. Temporary directories are deliberately kept.
func resolveOutput(path string) (boxpull.OutputDir, error) {
	if path != "" {
		return boxpull.ResolveOutputDir(path)
	}

	out, err := boxpull.TempOutputDir()
	if err != nil {
		return boxpull.OutputDir{}, err
	}
	fmt.Println(out.Path)
	return out, nil
}

func pullOptions(flags pullFlags) []boxpull.PullOption {
	var opts []boxpull.PullOption
	if flags.verify {
		opts = append(opts, boxpull.WithDigestVerification())
	}
	if flags.maxParallel > 0 {
		opts = append(opts, boxpull.WithMaxParallel(flags.maxParallel))
	}
	return opts
}
