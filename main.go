package main

import "github.com/hmf-industrial/taller-kiosk/cmd"

func main() {
	cmd.Execute()
}
