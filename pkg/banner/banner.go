package banner

import (
	"fmt"
	"strings"

	"pinboard/pkg/config"
)

const banner = `
██████╗ ██╗███╗   ██╗██████╗  ██████╗  █████╗ ██████╗ ██████╗
██╔══██╗██║████╗  ██║██╔══██╗██╔═══██╗██╔══██╗██╔══██╗██╔══██╗
██████╔╝██║██╔██╗ ██║██████╔╝██║   ██║███████║██████╔╝██║  ██║
██╔═══╝ ██║██║╚██╗██║██╔══██╗██║   ██║██╔══██║██╔══██╗██║  ██║
██║     ██║██║ ╚████║██████╔╝╚██████╔╝██║  ██║██║  ██║██████╔╝
╚═╝     ╚═╝╚═╝  ╚═══╝╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝
`

// Print writes the startup banner with the effective runtime info: listen
// address, board and note dimensions, the canonical color list and where
// the config came from.
func Print(eff config.EffectiveConfigResult, colors []string, version string) {
	cfg := eff.Config
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", cfg.Addr())
	fmt.Printf("Board:    %dx%d | Note: %dx%d\n", cfg.Board.Width, cfg.Board.Height, cfg.Board.NoteWidth, cfg.Board.NoteHeight)
	fmt.Printf("Colors:   %s\n", strings.Join(colors, " "))
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	fmt.Printf("Config:   %s\n", eff.Source)
	if cfg.Ops.Addr != "" {
		fmt.Printf("Ops:      http://%s (healthz, metrics, stats)\n", cfg.Ops.Addr)
	} else {
		fmt.Println("Ops:      disabled (enable with --ops-addr)")
	}

	fmt.Println("\n== Examples ===================================================")
	fmt.Printf("printf 'POST 0 0 %s hello board\\n' | nc localhost %d\n", strings.ToLower(colors[0]), cfg.Server.Port)
	fmt.Printf("printf 'GET PINS\\n' | nc localhost %d\n", cfg.Server.Port)
	fmt.Println("\n== Logs: =================================================")
}
