package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sacavia/sacavia-push-server/auth"
	"github.com/sacavia/sacavia-push-server/config"
	"github.com/sacavia/sacavia-push-server/db"
	"github.com/sacavia/sacavia-push-server/httpserver"
	"github.com/sacavia/sacavia-push-server/janitor"
	"github.com/sacavia/sacavia-push-server/location"
	"github.com/sacavia/sacavia-push-server/metric"
	"github.com/sacavia/sacavia-push-server/push"
	"github.com/sacavia/sacavia-push-server/queue"
	"github.com/sacavia/sacavia-push-server/redisprovider"
	"github.com/sacavia/sacavia-push-server/repo/locationrepo"
	"github.com/sacavia/sacavia-push-server/repo/notificationrepo"
	"github.com/sacavia/sacavia-push-server/repo/tokenrepo"
	"github.com/sacavia/sacavia-push-server/sender"
	"github.com/sacavia/sacavia-push-server/sender/provider/apns"
	"github.com/sacavia/sacavia-push-server/sender/provider/fcm"
)

var log = logger.NewNamed("main")

// filled by govvv
var (
	GitCommit, GitBranch, GitState, GitSummary, BuildDate string
)

var (
	flagConfigFile = flag.String("c", "etc/push-server.yml", "path to config file")
	flagEnvFile    = flag.String("e", ".env", "path to .env file, ignored when missing")
	flagVersion    = flag.Bool("v", false, "show version and exit")
	flagHelp       = flag.Bool("h", false, "show help and exit")
)

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Println(versionDescription())
		return
	}
	if *flagHelp {
		flag.PrintDefaults()
		return
	}

	if err := godotenv.Load(*flagEnvFile); err != nil && !os.IsNotExist(err) {
		log.Fatal("can't load env file", zap.Error(err))
	}

	conf, err := config.NewFromFile(*flagConfigFile)
	if err != nil {
		log.Fatal("can't open config file", zap.Error(err))
	}

	a := new(app.App)
	Bootstrap(a, conf)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err = a.Start(ctx); err != nil {
		log.Fatal("can't start app", zap.Error(err))
	}
	log.Info("app started", zap.String("version", versionDescription()))

	signChan := make(chan os.Signal, 2)
	signal.Notify(signChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	sig := <-signChan

	log.Info("received OS signal; stopping app", zap.String("signal", fmt.Sprint(sig)))

	ctx, cancel = context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err = a.Close(ctx); err != nil {
		log.Fatal("close error", zap.Error(err))
	}
	log.Info("goodbye!")
}

func Bootstrap(a *app.App, conf *config.Config) {
	a.Register(conf).
		Register(metric.New()).
		Register(db.New()).
		Register(redisprovider.New()).
		Register(tokenrepo.New()).
		Register(notificationrepo.New()).
		Register(locationrepo.New()).
		Register(queue.New()).
		Register(httpserver.New()).
		Register(auth.New()).
		Register(sender.New()).
		Register(fcm.New()).
		Register(apns.New()).
		Register(janitor.New()).
		Register(location.New()).
		Register(push.New())
}

func versionDescription() string {
	if GitSummary == "" {
		return "sacavia-push-server dev"
	}
	return fmt.Sprintf("sacavia-push-server %s (%s@%s, %s) built %s", GitSummary, GitBranch, GitCommit, GitState, BuildDate)
}
