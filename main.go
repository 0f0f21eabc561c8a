package main

import "github.com/HoneyChauhan001/attendance-management-system-frontend/cmd"

func main() {
	cmd.Execute()
}
