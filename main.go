package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kirk91/stats"
	"k8s.io/klog"
)

var (
	addr     string
	cmdsStr  string
	interval time.Duration
	count    int
)

func init() {
	flag.StringVar(&addr, "addr", "127.0.0.1:6379", "The address of the redis server")
	flag.StringVar(&cmdsStr, "commands", "ping,time", "The commands to probe, seperated by comma")
	flag.DurationVar(&interval, "interval", time.Second, "The interval between probe rounds")
	flag.IntVar(&count, "count", 0, "The number of probe rounds, 0 means unlimited")
}

func main() {
	flag.Parse()

	cmds := strings.Split(cmdsStr, ",")
	if len(cmds) == 0 {
		klog.Fatal("empty commands")
	}

	store := stats.NewStore(stats.NewStoreOption())
	go store.FlushingLoop(context.Background())

	p := newProbe(addr, cmds, store.CreateScope(""))
	go p.Run(interval, count)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-p.Done():
			klog.Info("probe finished, bye bye...")
			os.Exit(0)
		case s := <-c:
			klog.Info("signal received: ", s)
			switch s {
			case syscall.SIGINT, syscall.SIGTERM: // exit
				p.Stop()
				klog.Info("ready to exit, bye bye...")
				os.Exit(0)
			default:
				klog.V(4).Infof("ignore signal: %s", s)
			}
		}
	}
}
