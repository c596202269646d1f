// Command ssh_test_server runs the fake login node for manual testing:
//
//	ssh_test_server --schedulers srun,salloc
//	bioscons run --target 127.0.0.1:20222 --user any --strict-host-key=false
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	srv "github.com/nhoffman/bioscons/tools/sshserv"
)

func main() {
	addr := pflag.String("addr", "127.0.0.1:20222", "listen address")
	schedulers := pflag.StringSlice("schedulers", []string{"srun", "salloc"}, "scheduler commands the node reports as installed")
	noPTY := pflag.Bool("no-pty", false, "refuse pty requests, forcing clients onto exec channels")
	pflag.Parse()

	s, err := srv.Start(*addr)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "failed to start test ssh server:", err)
		os.Exit(1)
	}
	defer func() { _ = s.Close() }()

	paths := make(map[string]string, len(*schedulers))
	for _, name := range *schedulers {
		paths[name] = "/usr/bin/" + name
	}
	s.SetSchedulers(paths)
	if *noPTY {
		s.RejectPTY()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	_, _ = fmt.Fprintln(os.Stderr, "test login node listening on", s.Addr())
	<-ctx.Done()
}
