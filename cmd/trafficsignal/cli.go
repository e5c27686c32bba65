package main

import (
	"time"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Config  string           `help:"config file path" short:"c" type:"path"`
	Debug   bool             `help:"debug mode" short:"d" default:"false"`
	Red     time.Duration    `help:"red duration, overrides the config file"`
	Yellow  time.Duration    `help:"yellow duration, overrides the config file"`
	Green   time.Duration    `help:"green duration, overrides the config file"`
	Version kong.VersionFlag `help:"show version"`

	Run RunCmd `cmd:"" default:"1" help:"run the traffic signal in the terminal"`
	Dot DotCmd `cmd:"" help:"print the signal cycle as a Graphviz DOT graph"`
}

type RunCmd struct {
	Cycles int `help:"stop after this many transitions, 0 runs until interrupted" default:"0"`
}

type DotCmd struct {
	Output string `help:"write the graph to this file instead of stdout" short:"o" type:"path"`
}
