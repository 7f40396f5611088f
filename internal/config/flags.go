package config

import (
	"flag"
	"io"
)

type flagValues struct {
	configFile string
	envFile    string
	set        map[string]string
}

// parseFlags reads the server flags.
//
//	-c, -config string  JSON configuration file
//	-env string         dotenv file (default ".env")
//	-a string           listen address, e.g. ":4000"
//	-store string       store backend: memory, file or postgres
//	-data string        data directory for the file store
//
// Only flags present on the command line override lower layers.
func parseFlags(args []string) (*flagValues, error) {
	fs := flag.NewFlagSet("quiz-api", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fv := &flagValues{set: map[string]string{}}
	fs.StringVar(&fv.configFile, "c", "", "path to JSON config file")
	fs.StringVar(&fv.configFile, "config", "", "path to JSON config file")
	fs.StringVar(&fv.envFile, "env", ".env", "path to dotenv file")
	addr := fs.String("a", "", "address and port to run server")
	backend := fs.String("store", "", "store backend (memory, file, postgres)")
	dataDir := fs.String("data", "", "data directory for the file store")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			fv.set["a"] = *addr
		case "store":
			fv.set["store"] = *backend
		case "data":
			fv.set["data"] = *dataDir
		}
	})
	return fv, nil
}

func (fv *flagValues) apply(cfg *Config) {
	if v, ok := fv.set["a"]; ok {
		cfg.HTTPAddr = listenAddr(v)
	}
	if v, ok := fv.set["store"]; ok {
		cfg.StoreBackend = v
	}
	if v, ok := fv.set["data"]; ok {
		cfg.DataDir = v
	}
}
