package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"quill/internal/activation"
	"quill/internal/ai"
	"quill/internal/config"
	"quill/internal/conversation"
	"quill/internal/delivery"
	"quill/internal/ipc"
	"quill/internal/lang"
	"quill/internal/persona"
	"quill/internal/platform"
	"quill/internal/presence"
	"quill/internal/proxy"
	"quill/internal/respond"
	"quill/internal/statusbus"
	"quill/internal/trigger"
	"quill/internal/tts"
	"quill/internal/voice"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	cfgFile := cli.StringP("config", "c", "", "Config file path")
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)
	token := os.Getenv("DISCORD_BOT_TOKEN")
	if token == "" {
		log.Error("DISCORD_BOT_TOKEN not set")
		os.Exit(1)
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Error("OPENAI_API_KEY not set")
		os.Exit(1)
	}

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	log.Debug("Loaded config")

	httpClient := http.DefaultClient
	if cfg.Proxy != "" {
		httpClient, err = proxy.NewSocksClient(cfg.Proxy, 0)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", cfg.Proxy, "err", err)
			os.Exit(1)
		}
		log.Debug("Loaded proxy")
	}

	api := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
	)

	personas, err := persona.Load(cfg.InstructionsDir, cfg.Instructions, cfg.InternetAccess)
	if err != nil {
		log.Error("Failed to load personas", "dir", cfg.InstructionsDir, "err", err)
		os.Exit(1)
	}
	log.Debug("Loaded personas", "names", personas.Names())

	strs, err := lang.Load(cfg.Language)
	if err != nil {
		log.Error("Failed to load locale", "lang", cfg.Language, "err", err)
		os.Exit(1)
	}

	store := conversation.NewStore(cfg.MaxHistory)
	replies := conversation.NewReplyLog(conversation.DefaultReplyCapacity)
	activations := activation.New(cfg.Instructions)
	evaluator := trigger.NewEvaluator(activations, cfg.TriggerWords, cfg.AllowDM, cfg.SmartMention, "")

	generator := ai.NewGenerator(api, cfg.Model)
	search := ai.NewSearchClient(cfg.Search.URL, os.Getenv("SEARCH_API_KEY"), cfg.Search.MaxResults, httpClient)

	var bus *statusbus.Bus
	var pub platform.Publisher
	if cfg.StatusAddr != "" {
		bus = statusbus.New(cfg.StatusAddr)
		bus.Start()
		pub = bus
	}

	bot, err := platform.NewBot(platform.Options{
		Token:   token,
		Prefix:  cfg.CommandPrefix,
		OwnerID: cfg.OwnerID,
		Strings: strs,
	}, evaluator, activations, store, pub)
	if err != nil {
		log.Error("Failed to create bot", "err", err)
		os.Exit(1)
	}

	deliver := delivery.NewManager(bot, replies, delivery.MessageLimit, strs.ReplyFailure)

	var announcer respond.Announcer
	if cfg.Voice.Enabled {
		speaker := tts.NewSpeaker(api, cfg.Voice.Model, cfg.Voice.Voice, cfg.Voice.Format)
		announcer = voice.NewAnnouncer(speaker, bot, bot, os.TempDir(),
			time.Duration(cfg.Voice.PollDelay)*time.Second)
	}
	bot.Wire(respond.NewResponder(personas, search, generator, store, deliver, announcer), deliver)

	log.Info("Boot up - successful")

	if err := bot.Open(); err != nil {
		log.Error("Failed to open gateway", "err", err)
		os.Exit(1)
	}
	defer bot.Close()

	if ids, err := generator.ListModels(context.Background()); err != nil {
		log.Warn("Failed to list models", "err", err)
	} else {
		log.Info("Available models", "count", len(ids))
	}

	var cycler *presence.Cycler
	if !cfg.DisablePresence {
		statuses := presence.WithDefault(cfg.Presences, strs.HelpFooter)
		cycler = presence.NewCycler(bot, statuses, time.Duration(cfg.PresenceDelay)*time.Second)
		cycler.Start()
		defer cycler.Stop()
	}

	ctl, err := ipc.StartServer(*socket, func(msg ipc.ControlMessage) {
		switch msg.Cmd {
		case "reload":
			if err := personas.Reload(); err != nil {
				log.Error("Failed to reload personas", "err", err)
				return
			}
			log.Info("Reloaded personas", "names", personas.Names())
		case "bonk":
			store.Clear()
			log.Info("Cleared conversation history")
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
		}
	})
	if err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}
	defer ctl.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down")
	if bus != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		bus.Shutdown(ctx)
	}
}
