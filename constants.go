package main

import "time"

const (
	ModeTUI      = "tui"
	ModeHeadless = "headless"
	ModeRemote   = "remote"

	DefaultMode     = ModeTUI
	DefaultLogFile  = "arcgis-viewer.log"
	RemotePath      = "/ws"
	ShutdownTimeout = 5 * time.Second
	JSONIndent      = "  "
)
