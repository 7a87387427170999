package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/mira/internal/config"
	"github.com/1broseidon/mira/internal/daemon"
	"github.com/1broseidon/mira/internal/events"
	"github.com/1broseidon/mira/internal/hotkeys"
	"github.com/1broseidon/mira/internal/ipc"
	"github.com/1broseidon/mira/internal/logging"
	"github.com/1broseidon/mira/internal/platform"
	"github.com/1broseidon/mira/internal/position"
	"github.com/1broseidon/mira/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: mira daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: mira daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "passthrough":
		os.Exit(runPassthrough(os.Args[2:]))
	case "visible":
		os.Exit(runVisible(os.Args[2:]))
	case "emit":
		os.Exit(runEmit(os.Args[2:]))
	case "toolbar":
		os.Exit(runToolbar(os.Args[2:]))
	case "about":
		os.Exit(runAbout(os.Args[2:]))
	case "quit":
		os.Exit(runQuit(os.Args[2:]))
	case "events":
		os.Exit(runEvents(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mira <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the mira daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  monitors            List monitors as seen by the daemon")
	fmt.Fprintln(w, "  windows             List daemon windows and their X11 ids")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  passthrough on|off  Let mouse input fall through the overlays")
	fmt.Fprintln(w, "  visible on|off      Show or hide the overlays")
	fmt.Fprintln(w, "  emit                Broadcast an event to every overlay")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  toolbar save        Persist a toolbar position")
	fmt.Fprintln(w, "  toolbar reset       Move the toolbar back to its default position")
	fmt.Fprintln(w, "  toolbar width       Resize the toolbar")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  about               Open the About window")
	fmt.Fprintln(w, "  quit                Stop the daemon")
	fmt.Fprintln(w, "  events              Stream events delivered to a window")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Serve the daemon's commands as MCP tools on stdio")
	fmt.Fprintln(w, "  mcp tools           List the MCP tools")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'mira <command> --help' for command-specific options.")
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  mira config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  mira config print [--path PATH] [--defaults]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/mira/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/mira/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			if res.File != "" {
				fmt.Printf("# file: %s\n", res.File)
			}
			cfg = res.Config
		}
		data, err := cfg.YAML()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}
	return config.LoadFromPath(path)
}

// shortcutKeys maps the configured key sequences onto router keys.
func shortcutKeys(s config.ShortcutsConfig) hotkeys.Keys {
	return hotkeys.Keys{
		Toggle:     s.Toggle,
		Clear:      s.Clear,
		Undo:       s.Undo,
		Redo:       s.Redo,
		Spotlight:  s.Spotlight,
		DrawToggle: s.DrawToggle,
	}
}

func runDaemon() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (log level: %s, poll interval: %s)", cfg.LogLevel, cfg.CursorPollInterval())

	if err := ipc.NewClient().Ping(); err == nil {
		log.Fatalf("mira daemon is already running")
	}

	logOut, closeLog := logging.Open(cfg.LogFile)
	logger := logging.Setup(logOut, cfg.SlogLevel())

	// Connect to display server
	conn, err := x11.NewConnection(cfg.Display)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	tk := platform.NewLinuxToolkit(conn, cfg.ScaleFactor)

	store, err := position.NewDefaultStore()
	if err != nil {
		conn.Close()
		log.Fatalf("Failed to open position store: %v", err)
	}

	hub := events.NewHub(cfg.EventBuffer, logger)
	d := daemon.New(daemon.Config{
		PollInterval: cfg.CursorPollInterval(),
		Logger:       logger,
	}, tk, hub, store, hub)

	app, err := d.Setup()
	if err != nil {
		conn.Close()
		log.Fatalf("Failed to set up windows: %v", err)
	}
	log.Println("mira daemon started successfully")

	// Start IPC server
	ipcServer, err := ipc.NewServer(app.Bridge, hub)
	if err != nil {
		conn.Close()
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		conn.Close()
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	tk.OnExit(ipcServer.Stop)
	tk.OnExit(func() { _ = closeLog() })

	// Shortcuts are optional: without them the daemon still serves commands.
	router, err := app.ShortcutRouter(shortcutKeys(cfg.Shortcuts))
	if err == nil {
		err = hotkeys.NewHandler(conn, router).RegisterAll()
	}
	if err != nil {
		log.Printf("Global shortcuts unavailable: %v", err)
	} else {
		app.Bridge.SetShortcutsEnabled(true)
		log.Printf("Registered %d global shortcut(s)", len(router.Bindings()))
	}

	// Setup signal handlers
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down mira daemon...")
		tk.Exit(0)
	}()

	// Start event loop (blocking)
	log.Println("Entering event loop...")
	conn.EventLoop()
}
