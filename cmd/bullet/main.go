package main

import (
	"fmt"
	"os"

	"github.com/mazrean/bullet/internal/config"
	"github.com/mazrean/bullet/internal/pkg/errors"
)

func main() {
	if err := config.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
