// Package logger provides adapters for popular logger libraries to work with rtree's Logger interface.
//
// The adapters allow you to use your existing logger with rtree without writing boilerplate.
// Note that the standard library's slog.Logger already implements rtree.Logger directly.
//
// Example with zap:
//
//	import (
//	    rtree "github.com/Liyanhao1209/Disk-Resident-R-Tree"
//	    "github.com/Liyanhao1209/Disk-Resident-R-Tree/logger"
//	    "go.uber.org/zap"
//	)
//
//	func main() {
//	    zapLogger, _ := zap.NewProduction()
//
//	    tree, err := rtree.CreateIn[float64](dir, "spatial.idx", 2, 8, 4096, rtree.WithLogger(logger.NewZap(zapLogger)))
//	    if err != nil {
//	        panic(err)
//	    }
//	    defer tree.Close()
//	}
package logger
