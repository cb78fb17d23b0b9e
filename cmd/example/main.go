package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	classcommands "github.com/Chiggy-Playz/discord-class-commands"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal("[ERR] ", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatal("[ERR] failed to create session: ", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	router := classcommands.NewRouter(nil)
	dg.AddHandler(router.HandleInteraction)

	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		registrar := classcommands.NewRegistrar(s, nil, cfg.CacheDir)
		if err := registrar.Sync(ctx, r.User.ID, cfg.GuildID); err != nil {
			log.Println("[ERR] command sync:", err)
			return
		}
		log.Printf("[INFO] ✅ %s is running.", r.User.Username)
	})

	if err := dg.Open(); err != nil {
		log.Fatal("[ERR] failed to open Discord session: ", err)
	}
	defer dg.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] received signal %s, shutting down...", s)
	case <-ctx.Done():
	}
	log.Println("[INFO] example bot exited cleanly")
}
