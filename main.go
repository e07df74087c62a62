package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/sync/errgroup"

	"github.com/matt-g-everett/motiontx/api"
	"github.com/matt-g-everett/motiontx/bundle"
	"github.com/matt-g-everett/motiontx/playback"
	"github.com/matt-g-everett/motiontx/preview"
	"github.com/matt-g-everett/motiontx/stream"
)

type app struct {
	Config   stream.Config
	Bundle   *bundle.Bundle
	Client   mqtt.Client
	Streamer *stream.Streamer
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	slog.Info("connected", "broker", a.Config.Mqtt.URL)
	if err := a.Streamer.Subscribe(client); err != nil {
		slog.Error("subscribe failed", "topic", a.Config.Mqtt.Topics.Control, "err", err)
	}
}

func (a *app) handleConnectionLost(_ mqtt.Client, err error) {
	slog.Warn("connection lost", "err", err)
}

func (a *app) readConfig(configPath string) {
	c, err := stream.ReadConfig(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	a.Config = c
}

func (a *app) readBundle() {
	b, err := bundle.LoadFile(a.Config.Bundle)
	if err != nil {
		log.Fatalf("bundle: %v", err)
	}
	a.Bundle = b
}

// export renders every timeline to PNG frames and exits.
func (a *app) export(ctx context.Context, dir string, fps float64) error {
	for i, tl := range a.Bundle.Timelines {
		actor, _ := a.Bundle.Actor(tl.ActorID())
		paths, err := preview.ExportFrames(ctx, tl, actor, a.Bundle.MotionOptions(), preview.Options{},
			filepath.Join(dir, tl.ActorID()), fps)
		if err != nil {
			return err
		}
		slog.Info("exported", "timeline", i, "actor", tl.ActorID(), "frames", len(paths))
	}
	return nil
}

func (a *app) run(ctx context.Context) error {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer a.Client.Disconnect(250)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Streamer.Run(gctx) })
	if a.Config.Listen != "" {
		g.Go(func() error { return api.NewApi(a.Bundle).Serve(gctx, a.Config.Listen) })
	}
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func main() {
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	bundlePath := flag.String("bundle", "", "Timeline bundle; overrides the config file.")
	listen := flag.String("listen", "", "HTTP query address; overrides the config file.")
	exportDir := flag.String("export", "", "Render PNG frames into this directory and exit.")
	fps := flag.Float64("fps", 30, "Frame rate for -export.")
	flag.Parse()

	a := newApp()
	a.readConfig(*configPath)
	if *bundlePath != "" {
		a.Config.Bundle = *bundlePath
	}
	if *listen != "" {
		a.Config.Listen = *listen
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: a.Config.Level()}))
	slog.SetDefault(logger)
	playback.SetLogger(logger)

	a.readBundle()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *exportDir != "" {
		if err := a.export(ctx, *exportDir, *fps); err != nil {
			log.Fatalf("export: %v", err)
		}
		return
	}

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID(a.Config.Mqtt.ClientID).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(a.handleOnConnect).
		SetConnectionLostHandler(a.handleConnectionLost)
	client := mqtt.NewClient(options)

	a.Client = client
	a.Streamer = stream.NewStreamer(a.Config, a.Bundle, stream.NewMQTTSink(client, a.Config.Mqtt.Topics.Stream))

	if err := a.run(ctx); err != nil {
		log.Fatal(err)
	}
}
