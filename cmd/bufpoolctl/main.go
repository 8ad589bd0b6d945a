package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/tuannm99/clockbuf/internal/bufferpool"
	"github.com/tuannm99/clockbuf/internal/config"
	"github.com/tuannm99/clockbuf/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to bufferpool config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Storage.Dir, storage.FileMode0755); err != nil {
		slog.Error("create storage dir", "err", err)
		os.Exit(1)
	}

	file := storage.NewFile(cfg.Storage.Dir, cfg.Storage.Base)

	mgr, err := bufferpool.NewBufferManager(cfg.Bufferpool.NumBufs)
	if err != nil {
		slog.Error("init buffer manager", "err", err)
		os.Exit(1)
	}

	slog.Info("buffer pool ready", "num_bufs", cfg.Bufferpool.NumBufs, "file", file.Filename())

	if err := run(mgr, file); err != nil {
		slog.Error("run", "err", err)
		os.Exit(1)
	}
}

// run exercises the core public surface once: allocate a page, write
// into it, release it dirty, read it back through the pool, and flush
// the file so nothing is left pinned or dirty on exit.
func run(mgr *bufferpool.BufferManager, file *storage.File) error {
	pageNo, p, err := mgr.AllocPage(file)
	if err != nil {
		return err
	}
	copy(p.Bytes()[4:], []byte("bufpoolctl"))

	if err := mgr.UnpinPage(file, pageNo, true); err != nil {
		return err
	}

	q, err := mgr.ReadPage(file, pageNo)
	if err != nil {
		return err
	}
	slog.Info("read back", "pageNo", pageNo, "bytes", string(q.Bytes()[4:14]))
	if err := mgr.UnpinPage(file, pageNo, false); err != nil {
		return err
	}

	if err := mgr.FlushFile(file); err != nil {
		return err
	}

	slog.Info("descriptor table", "report", mgr.PrintSelf())
	return nil
}
