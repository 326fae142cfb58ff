package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"Aurora/internal/backend"
	"Aurora/internal/config"
	"Aurora/internal/core/media"
	"Aurora/internal/core/posts"
	"Aurora/internal/gallery"
)

const usage = `Usage: gallery [-config path] [-v] <command>

Commands:
  list                                 list all posts
  show <id>                            show one post
  create -title T [-content C] [-file path]   publish a post
  update <id> -title T [-content C] [-file path]   edit a post
  delete <id>                          delete a post
`

// stdoutNotifier prints outcome messages the way the web UI shows toasts.
type stdoutNotifier struct{}

func (stdoutNotifier) Success(msg string) { fmt.Println(msg) }
func (stdoutNotifier) Error(msg string)   { fmt.Fprintln(os.Stderr, msg) }

func main() {
	configPath := flag.String("config", "aurora.toml", "path to the TOML config file")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	svc := posts.NewService(backend.NewClient(nil), posts.Config{
		Endpoints: posts.Endpoints{
			List:   cfg.Endpoints.List,
			Get:    cfg.Endpoints.Get,
			Create: cfg.Endpoints.Create,
			Update: cfg.Endpoints.Update,
			Delete: cfg.Endpoints.Delete,
			Upload: cfg.Endpoints.Upload,
		},
		MaxFileMB:     cfg.MaxFileMB,
		MaxImagePX:    cfg.MaxImagePX,
		JPEGQuality:   cfg.JPEGQuality,
		ReadTimeout:   cfg.ReadTimeout(),
		WriteTimeout:  cfg.WriteTimeout(),
		UploadTimeout: cfg.UploadTimeout(),
		ReadRetries:   cfg.ReadRetries,
	})

	ctrl := gallery.NewController(svc, stdoutNotifier{})
	ctx := context.Background()

	if err := run(ctx, ctrl, flag.Args()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, ctrl *gallery.Controller, args []string) error {
	switch cmd := args[0]; cmd {
	case "list":
		if err := ctrl.Refresh(ctx); err != nil {
			return err
		}
		printList(ctrl.Posts())
		return nil

	case "show", "get":
		if len(args) < 2 {
			return fmt.Errorf("%s requires a post id", cmd)
		}
		if err := ctrl.OpenDetail(ctx, args[1]); err != nil {
			return err
		}
		detail, open := ctrl.Detail()
		if !open {
			return fmt.Errorf("post not found: %s", args[1])
		}
		printDetail(detail)
		return nil

	case "create":
		title, content, file, err := parseWriteFlags(cmd, args[1:])
		if err != nil {
			return err
		}
		return ctrl.Publish(ctx, title, content, file)

	case "update":
		if len(args) < 2 {
			return fmt.Errorf("update requires a post id")
		}
		title, content, file, err := parseWriteFlags(cmd, args[2:])
		if err != nil {
			return err
		}
		if err := ctrl.OpenDetail(ctx, args[1]); err != nil {
			return err
		}
		return ctrl.SaveDetail(ctx, title, content, file)

	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("delete requires a post id")
		}
		if err := ctrl.OpenDetail(ctx, args[1]); err != nil {
			return err
		}
		return ctrl.DeleteDetail(ctx)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// parseWriteFlags handles the shared flags of create and update.
func parseWriteFlags(cmd string, args []string) (title, content string, file *media.File, err error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	titleFlag := fs.String("title", "", "post title")
	contentFlag := fs.String("content", "", "post text content")
	filePath := fs.String("file", "", "path to an image or video to attach")
	if err := fs.Parse(args); err != nil {
		return "", "", nil, err
	}

	if *filePath != "" {
		f, err := media.FileFromPath(*filePath)
		if err != nil {
			return "", "", nil, err
		}
		file = &f
	}

	return *titleFlag, *contentFlag, file, nil
}

func printList(list []posts.Post) {
	if len(list) == 0 {
		fmt.Println("No posts yet.")
		return
	}
	for _, p := range list {
		marker := " "
		if p.MediaURL != "" {
			marker = "*"
			if p.HasVideo() {
				marker = ">"
			}
		}
		fmt.Printf("%s  %-36s  %-20s  %s\n", marker, p.ID, gallery.FormatDate(p.CreatedAt), p.Title)
	}
}

func printDetail(p posts.Post) {
	fmt.Printf("ID:      %s\n", p.ID)
	fmt.Printf("Title:   %s\n", p.Title)
	if when := gallery.FormatDate(p.CreatedAt); when != "" {
		fmt.Printf("Created: %s\n", when)
	}
	if p.MediaURL != "" {
		kind := "image"
		if p.HasVideo() {
			kind = "video"
		}
		fmt.Printf("Media:   %s (%s)\n", p.MediaURL, kind)
	}
	if p.Content != "" {
		fmt.Printf("\n%s\n", p.Content)
	}
}
