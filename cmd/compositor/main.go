// Command compositor is the entrypoint spec.md §6 describes: it parses the
// two named flags, wires a backend.Backend into a server.Server, and
// spawns the -c command once the display is up.
package main

import (
	"flag"
	"log"
	"os"
	"os/exec"

	"github.com/friedelschoen/wlcompose/server"
)

func main() {
	cmd := flag.String("c", "", "command passed to /bin/sh -c once the display globals are up")
	debug := flag.Bool("d", false, "debug rendering: yellow clear, full-output damage every frame")
	flag.Parse()

	logger := log.New(os.Stderr, "wlcompose: ", log.LstdFlags)

	b := newHeadlessBackend()
	srv := server.New(b, logger, "left_ptr", *debug)

	if err := os.Setenv("WAYLAND_DISPLAY", b.SocketName()); err != nil {
		logger.Fatalf("setting WAYLAND_DISPLAY: %v", err)
	}

	if *cmd != "" {
		spawnOnce(*cmd, logger)
	}

	if err := srv.Run(); err != nil {
		logger.Fatalf("event loop terminated: %v", err)
	}
}

// spawnOnce implements spec.md §6's "-c CMD argument spawns /bin/sh -c CMD
// once after the display globals are up". The child inherits the
// environment, including WAYLAND_DISPLAY; this binary never sets DISPLAY.
func spawnOnce(cmdline string, logger *log.Logger) {
	c := exec.Command("/bin/sh", "-c", cmdline)
	c.Env = os.Environ()
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Start(); err != nil {
		logger.Printf("failed to spawn -c command %q: %v", cmdline, err)
	}
}
