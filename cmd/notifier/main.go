package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/louro2023/agendaflow/internal/logger"
	"github.com/louro2023/agendaflow/internal/rabbit"
	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "./configs/notifier_config.yaml", "Path to configuration file")
	log.SetFormatter(&log.TextFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.WarnLevel)
}

func main() {
	flag.Parse()

	config, err := NewConfig(configFile)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}
	err = logger.PrepareLogger(config.Logger)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}

	r := rabbit.New(config.Rabbit)
	if err := r.Connect(); err != nil {
		log.Errorf("failed to connect to rabbit: %v", err)
		return
	}
	defer r.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	err = r.Consume(ctx, func(msg amqp.Delivery) {
		n := rabbit.Notification{}
		if err := json.Unmarshal(msg.Body, &n); err != nil {
			log.Errorf("failed to parse bytes: %s", err)
			return
		}
		log.WithField("eventId", n.EventID).WithField("requesterId", n.RequesterID).
			Printf("event %q on %s at %s was %s", n.Title, n.Date, n.Time, n.Status)
	})
	if err != nil {
		log.Errorf("failed to consume: %v", err)
	}
}
