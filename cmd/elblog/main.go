// elblog - AWS load balancer access logs to JSON
//
// elblog walks directories of Application or Classic Load Balancer access
// logs and writes one JSON object per log line to standard output.
package main

import (
	"os"

	"github.com/ccollicutt/elblog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
