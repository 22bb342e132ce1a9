// Command shadercache inspects and fills a shader bytecode cache file.
//
// Usage:
//
//	shadercache [options] <command> [arguments]
//
// Commands:
//
//	compile [-o dir] [-debug] [-validate] files...   Compile WGSL through the cache
//	list                                             List cached entries
//	stat                                             Print entry count and size
//	clear [keys...]                                  Remove entries (all if none given)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/hupe1980/shadercache"
	"github.com/hupe1980/shadercache/compiler"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fset := flag.NewFlagSet("shadercache", flag.ContinueOnError)
	fset.SetOutput(stderr)
	cachePath := fset.String("cache", shadercache.DefaultPath, "cache file")
	verbose := fset.Bool("v", false, "verbose logging")
	fset.Usage = func() { usage(fset) }

	if err := fset.Parse(args); err != nil {
		return 2
	}
	if fset.NArg() < 1 {
		fmt.Fprintln(stderr, "Error: no command specified")
		usage(fset)
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := shadercache.NewLogger(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	name, cmdArgs := fset.Arg(0), fset.Args()[1:]

	var cmd func(c *shadercache.Cache) error
	switch name {
	case "compile":
		cmd = func(c *shadercache.Cache) error { return compileCmd(c, cmdArgs, stdout, stderr) }
	case "list":
		cmd = func(c *shadercache.Cache) error { return listCmd(c, stdout) }
	case "stat":
		cmd = func(c *shadercache.Cache) error { return statCmd(c, stdout) }
	case "clear":
		cmd = func(c *shadercache.Cache) error { return clearCmd(c, cmdArgs, stdout) }
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n", name)
		usage(fset)
		return 2
	}

	// The command error is kept apart so Use still flushes after a failed command.
	var cmdErr error
	err := shadercache.Use(func(c *shadercache.Cache) error {
		cmdErr = cmd(c)
		return nil
	}, shadercache.WithPath(*cachePath), shadercache.WithLogger(logger))

	if err = errors.Join(cmdErr, err); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func compileCmd(c *shadercache.Cache, args []string, stdout, stderr io.Writer) error {
	fset := flag.NewFlagSet("compile", flag.ContinueOnError)
	fset.SetOutput(stderr)
	outDir := fset.String("o", "", "write <name>.spv files to this directory")
	debug := fset.Bool("debug", false, "include debug info")
	validate := fset.Bool("validate", true, "validate IR")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() == 0 {
		return errors.New("compile: no input files")
	}

	var opts []compiler.WGSLOption
	if *debug {
		opts = append(opts, compiler.WithDebugInfo())
	}
	if !*validate {
		opts = append(opts, compiler.WithoutValidation())
	}
	cc := compiler.NewCached(c, compiler.NewWGSL(opts...))

	var errs []error
	for _, path := range fset.Args() {
		res, err := cc.Compile(context.Background(), path)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		status := "compiled"
		if res.Hit {
			status = "cached"
		}
		fmt.Fprintf(stdout, "%s\t%s\t%d bytes\n", status, path, len(res.Data))

		if *outDir != "" {
			if err := os.MkdirAll(*outDir, 0o755); err != nil {
				return err
			}
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".spv"
			if err := os.WriteFile(filepath.Join(*outDir, name), res.Data, 0o644); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func listCmd(c *shadercache.Cache, stdout io.Writer) error {
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tTIMESTAMP\tMODIFIED\tBYTES")
	for _, e := range c.Entries() {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\n",
			e.Key, e.Timestamp, shadercache.Time(e.Timestamp).Format(time.RFC3339), len(e.Data))
	}
	return tw.Flush()
}

func statCmd(c *shadercache.Cache, stdout io.Writer) error {
	s := c.Stats()
	fmt.Fprintf(stdout, "path:    %s\n", c.Path())
	fmt.Fprintf(stdout, "entries: %d\n", s.Entries)
	fmt.Fprintf(stdout, "bytes:   %d\n", s.Bytes)
	return nil
}

func clearCmd(c *shadercache.Cache, keys []string, stdout io.Writer) error {
	if len(keys) == 0 {
		n := c.Len()
		c.Reset()
		fmt.Fprintf(stdout, "removed %d entries\n", n)
		return nil
	}

	var missing []string
	for _, key := range keys {
		if !c.Delete(key) {
			missing = append(missing, key)
		}
	}
	fmt.Fprintf(stdout, "removed %d entries\n", len(keys)-len(missing))
	if len(missing) > 0 {
		return fmt.Errorf("clear: not cached: %s", strings.Join(missing, ", "))
	}
	return nil
}

func usage(fset *flag.FlagSet) {
	w := fset.Output()
	fmt.Fprintf(w, "Usage: shadercache [options] <command> [arguments]\n\n")
	fmt.Fprintf(w, "Options:\n")
	fset.PrintDefaults()
	fmt.Fprintf(w, "\nCommands:\n")
	fmt.Fprintf(w, "  compile [-o dir] files...  Compile WGSL through the cache\n")
	fmt.Fprintf(w, "  list                       List cached entries\n")
	fmt.Fprintf(w, "  stat                       Print entry count and size\n")
	fmt.Fprintf(w, "  clear [keys...]            Remove entries (all if none given)\n")
}
