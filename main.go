// Command devflow runs a project's development workflow: tests, a test loop,
// coverage reports, static analysis and cleanup.
package main

import "devflow/internal/cli"

func main() {
	cli.Execute()
}
