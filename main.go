package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"

	builderApp "pagebuilder/internal/app"
	"pagebuilder/internal/config"
)

//go:embed all:frontend/dist
var assets embed.FS

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "pagebuilder",
	Short: "Visual page builder",
	Long:  `Page Builder is a desktop editor for composing pages from components on a canvas. Subcommands expose the same canvases to agents and scripts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDesktop()
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve canvases over MCP on stdin/stdout",
	Long:  `Runs a headless MCP server on the same database as the desktop app. Edits saved here show up in an open desktop window.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return builderApp.ServeMCP(cfgPath)
	},
}

func runDesktop() error {
	app := builderApp.New(cfgPath)

	// macOS needs an Edit menu for Cmd+C/V/X/A to reach the WebView
	appMenu := menu.NewMenu()
	appMenu.Append(menu.EditMenu())

	return wails.Run(&options.App{
		Title:     "Page Builder",
		Width:     1440,
		Height:    900,
		MinWidth:  800,
		MinHeight: 600,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 15, G: 15, B: 20, A: 1},
		Menu:             appMenu,
		OnStartup:        app.Startup,
		OnBeforeClose:    app.BeforeClose,
		OnShutdown:       app.Shutdown,
		Bind: []interface{}{
			app,
		},
		Mac: &mac.Options{
			TitleBar: &mac.TitleBar{
				TitlebarAppearsTransparent: true,
				HideTitle:                  true,
				HideTitleBar:               false,
				FullSizeContent:            true,
				UseToolbar:                 true,
				HideToolbarSeparator:       true,
			},
			About: &mac.AboutInfo{
				Title:   "Page Builder",
				Message: "Component canvas with undo, drag and drop and keyboard editing",
			},
		},
	})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "Path to the config file")
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newExportCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
