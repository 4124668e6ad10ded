package main

import "github.com/kralicky/robotsls/pkg/robotsls"

func main() {
	robotsls.Execute()
}
