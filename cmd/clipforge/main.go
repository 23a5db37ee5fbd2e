package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kikiluvv/clipforge/internal/ai"
	"github.com/kikiluvv/clipforge/internal/config"
	"github.com/kikiluvv/clipforge/internal/export"
	"github.com/kikiluvv/clipforge/internal/ffmpeg"
	"github.com/kikiluvv/clipforge/internal/gui"
	"github.com/kikiluvv/clipforge/internal/logging"
	"github.com/kikiluvv/clipforge/internal/project"
	"github.com/kikiluvv/clipforge/pkg/util"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "clipforge",
	Short: "clipforge - short-form video editor",
	Long:  "A real-time compositing video editor for short-form clips: trim, layer, caption, and export.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(projectCmd)

	analyzeCmd.Flags().Bool("local", false, "use local scene/silence detection instead of the gateway")
	exportCmd.Flags().String("output", "", "output file path")
	exportCmd.Flags().Bool("burn-subtitles", false, "burn captions into the output")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the editor window",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		return gui.Run(cmd.Context(), log.Logger, cfg)
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [input video]",
	Short: "Analyze a video and create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.FromContext(ctx)
		input := args[0]

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		info, err := exec.ProbeVideo(ctx, input)
		if err != nil {
			return err
		}

		proj := project.New(filepath.Base(input), input, info.Duration)

		local, _ := cmd.Flags().GetBool("local")
		gateway := ai.NewGateway(log.Logger, cfg.Gateway)

		if gateway.Configured() && !local {
			if err := analyzeRemote(ctx, gateway, proj, input); err != nil {
				return err
			}
		} else {
			if err := analyzeLocal(ctx, exec, cfg, proj, input); err != nil {
				return err
			}
		}

		store, err := project.NewStore(log.Logger, cfg.ProjectDir)
		if err != nil {
			return err
		}
		if err := store.Save(proj); err != nil {
			return err
		}

		log.Info().
			Str("project", proj.ID).
			Dur("duration", info.Duration).
			Msg("analysis complete")

		return nil
	},
}

// analyzeRemote fills project analyses from the inference gateway
func analyzeRemote(ctx context.Context, gateway *ai.Gateway, proj *project.Project, input string) error {
	moments, err := gateway.DetectMoments(ctx, input)
	if err != nil {
		return fmt.Errorf("moment detection failed: %w", err)
	}
	proj.Analyses.Moments = moments

	transcript, err := gateway.Transcribe(ctx, input)
	if err != nil {
		log.Warn().Err(err).Msg("transcription failed, continuing without captions")
	} else {
		proj.Analyses.Transcript = transcript
		proj.Subtitles = transcript.Subtitles()
	}

	log.Info().Int("moments", len(moments.Moments)).Msg("gateway analysis done")
	return nil
}

// analyzeLocal derives candidate moments from scene changes and silence
// gaps when no gateway is configured.
func analyzeLocal(ctx context.Context, exec *ffmpeg.Executor, cfg *config.Config, proj *project.Project, input string) error {
	scenes, err := exec.DetectScenes(ctx, input, cfg.Detection.SceneThreshold)
	if err != nil {
		return fmt.Errorf("scene detection failed: %w", err)
	}
	silences, err := exec.DetectSilence(ctx, input, cfg.Detection.SilenceThreshold, cfg.Detection.MinSilenceDuration)
	if err != nil {
		log.Warn().Err(err).Msg("silence detection failed, using scenes only")
	}

	list := &ai.MomentList{}
	bounds := append([]time.Duration{0}, scenes...)
	bounds = append(bounds, proj.Duration)

	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]
		if end-start < time.Second {
			continue
		}
		m := ai.Moment{
			Start:      start,
			End:        end,
			Label:      fmt.Sprintf("scene %d", i+1),
			Confidence: 0.5,
		}
		// scenes that are mostly silent rank lower
		for _, s := range silences {
			if s.Start <= start && s.End >= end {
				m.Confidence = 0.1
				break
			}
		}
		list.Moments = append(list.Moments, m)
	}

	proj.Analyses.Moments = list
	log.Info().Int("moments", len(list.Moments)).Msg("local analysis done")
	return nil
}

var exportCmd = &cobra.Command{
	Use:   "export [project id]",
	Short: "Export a project to a video file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.FromContext(ctx)

		store, err := project.NewStore(log.Logger, cfg.ProjectDir)
		if err != nil {
			return err
		}
		proj, err := store.Load(args[0])
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = proj.ID + ".mp4"
		}
		burn, _ := cmd.Flags().GetBool("burn-subtitles")

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		exporter := export.NewFFmpegExporter(log.Logger, exec, cfg.WorkDir, cfg.FFmpeg.Preset, cfg.FFmpeg.CRF)
		result, err := exporter.Export(ctx, export.Request{
			Input:         proj.SourcePath,
			Output:        output,
			State:         proj.State,
			Subtitles:     proj.Subtitles,
			BurnSubtitles: burn,
			Progress: func(p *ffmpeg.Progress) {
				log.Debug().Str("time", p.Time).Str("speed", p.Speed).Msg("encoding")
			},
		})
		if err != nil {
			return err
		}

		log.Info().Str("output", result).Msg("export complete")
		return nil
	},
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project management commands",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		store, err := project.NewStore(log.Logger, cfg.ProjectDir)
		if err != nil {
			return err
		}
		projects, err := store.List()
		if err != nil {
			return err
		}

		if len(projects) == 0 {
			fmt.Println("no projects")
			return nil
		}
		for _, p := range projects {
			fmt.Printf("%s  %-30s  %s  trim %s-%s  subtitles=%d\n",
				p.ID, p.Name,
				util.FormatDuration(p.Duration),
				util.FormatDuration(p.State.Trim.Start),
				util.FormatDuration(p.State.Trim.End),
				len(p.Subtitles))
		}
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete [project id]",
	Short: "Delete a stored project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		store, err := project.NewStore(log.Logger, cfg.ProjectDir)
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		log.Info().Str("project", args[0]).Msg("project deleted")
		return nil
	},
}
