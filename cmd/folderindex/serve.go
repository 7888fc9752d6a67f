package main

import (
	"fmt"
	"log"
	"net/http"
	"os/exec"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/CageChen/folderindex/internal/config"
	"github.com/CageChen/folderindex/internal/handler"
	"github.com/CageChen/folderindex/internal/watcher"
)

type serveOptions struct {
	port  int
	watch bool
	open  bool
}

func newServeCmd(opts *options) *cobra.Command {
	sopts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve [PATH...]",
		Short: "Serve indexes of the configured folders over HTTP",
		Long: `Serve starts an HTTP server with an index page per configured folder and
a JSON API. Paths given on the command line replace the saved folders for
this run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			// CLI paths override saved folders
			if len(args) > 0 {
				cfg.Folders = nil
				for _, path := range args {
					if err := cfg.AddFolder(path, "", ""); err != nil {
						return err
					}
				}
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = sopts.port
			}
			if cmd.Flags().Changed("watch") {
				cfg.Watch = sopts.watch
			}
			if cmd.Flags().Changed("open") {
				cfg.Open = sopts.open
			}
			return serve(cfg)
		},
	}

	cmd.Flags().IntVarP(&sopts.port, "port", "p", 8080, "HTTP server port")
	cmd.Flags().BoolVar(&sopts.watch, "watch", true, "Notify clients when indexed folders change")
	cmd.Flags().BoolVar(&sopts.open, "open", false, "Open browser on startup")
	return cmd
}

func serve(cfg *config.Config) error {
	log.Printf("FolderIndex %s", version)
	log.Printf("Config file: %s", cfg.GetConfigFilePath())
	log.Printf("Serving %d folder(s):", len(cfg.Folders))
	for i, f := range cfg.Folders {
		if f.GitRef != "" {
			log.Printf("  [%d] %s -> %s (git ref: %s)", i, f.Alias, f.Path, f.GitRef)
		} else {
			log.Printf("  [%d] %s -> %s", i, f.Alias, f.Path)
		}
	}
	log.Printf("Server starting at: http://localhost:%d", cfg.Port)

	// Create handlers
	folderHandler := handler.NewFolderHandler(cfg)
	indexHandler := handler.NewIndexHandler(folderHandler)
	wsHandler := handler.NewWSHandler()

	// Setup folder watcher if enabled
	if cfg.Watch {
		w, err := watcher.New(cfg.Indexer)
		if err != nil {
			log.Printf("Warning: failed to create folder watcher: %v", err)
		} else {
			w.OnChange(wsHandler.OnIndexChange)
			folderHandler.OnFolderAdded(w.AddFolder)
			folderHandler.OnFolderRemoved(w.RemoveFolder)
			if err := w.Start(cfg.Folders); err != nil {
				log.Printf("Warning: failed to start folder watcher: %v", err)
			}
			defer func() { _ = w.Stop() }()
			log.Printf("Folder watcher enabled")
		}
	}

	r := newRouter(folderHandler, indexHandler, wsHandler)

	// Open browser if requested
	if cfg.Open {
		go openBrowser(fmt.Sprintf("http://localhost:%d", cfg.Port))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	if err := r.Run(addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func newRouter(folders *handler.FolderHandler, indexes *handler.IndexHandler, ws *handler.WSHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// HTML pages
	r.GET("/", indexes.GetHome)
	r.GET("/index/:alias", indexes.GetPage)

	// API routes
	api := r.Group("/api")
	{
		api.GET("/index/:alias", indexes.GetIndex)
		api.GET("/ws", ws.HandleWS)

		// Folder management APIs
		api.GET("/folders", folders.GetFolders)
		api.POST("/folders", folders.AddFolder)
		api.DELETE("/folders", folders.RemoveFolder)
	}

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "rundll32"
		args = []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		cmd = "open"
		args = []string{url}
	default: // linux, etc.
		cmd = "xdg-open"
		args = []string{url}
	}

	_ = exec.Command(cmd, args...).Start()
}
