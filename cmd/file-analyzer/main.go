package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joseph-ayodele/file-analyzer/internal/common"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	stop()

	if err != nil {
		if _, werr := fmt.Fprintln(os.Stderr, common.UserMessage(err)); werr != nil {
			fmt.Println(common.UserMessage(err))
		}
		os.Exit(1)
	}
}
