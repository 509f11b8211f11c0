package config

import (
	"flag"
)

const (
	defaultDBDNS    = ""
	defaultLogLevel = "info"
)

type Flags struct {
	address string

	dbDNS    string
	logLevel string
}

func (flags *Flags) Init() {
	flags.register(flag.CommandLine)
	flag.Parse()
}

func (flags *Flags) register(fs *flag.FlagSet) {
	fs.StringVar(&flags.address, "a", ":8080", "Address and port to run server")

	fs.StringVar(&flags.dbDNS, "d", defaultDBDNS, "db dns")
	fs.StringVar(&flags.logLevel, "l", defaultLogLevel, "log level")
}
