package main

import (
	"log"
)

func main() {
	log.SetFlags(0)

	args := getArgs()
	if args == nil {
		log.Fatal("unable to parse arguments")
	}

	config, err := loadConfig(args.ConfigFile)
	if err != nil {
		log.Fatal(err)
	}

	accounts, channels, bans, err := loadState(config.Persistdir)
	if err != nil {
		log.Fatal(err)
	}

	server := newServer(config)
	server.Accounts = accounts
	server.Channels = channels
	server.BanList = bans

	if err := server.listen(); err != nil {
		log.Fatal(err)
	}

	log.Printf("Listening on %s:%s", config.ListenHost, config.ListenPort)

	go server.acceptLoop()
	server.wait()

	if err := saveState(config.Persistdir, server.Accounts, server.Channels, server.BanList); err != nil {
		log.Printf("error saving state: %s", err)
	}

	log.Printf("Server shutdown cleanly.")
}
