package main

import (
	"context"
	"log"
	"os"

	"github.com/jbmukiza/mahudhurio/apps/api/echo"
	"github.com/jbmukiza/mahudhurio/core"
	"github.com/jbmukiza/mahudhurio/core/access"
	"github.com/jbmukiza/mahudhurio/core/attendance"
	"github.com/jbmukiza/mahudhurio/core/directory"
	"github.com/jbmukiza/mahudhurio/services/email"
	"github.com/jbmukiza/mahudhurio/services/logger"
	"github.com/jbmukiza/mahudhurio/storage/database"
	"github.com/jbmukiza/mahudhurio/storage/database/sqlx"
)

func main() {
	conf := core.Conf
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	// set up services
	dirSvc := directory.NewService(sqlxrepos.NewDirectoryRepository(db))
	ledger := attendance.NewService(sqlxrepos.NewAttendanceRepository(db), dirSvc)

	var mailSvc core.EmailService
	if conf.AbsenceNotices {
		if conf.Debug {
			mailSvc = emailsvc.NewConsoleService()
		} else {
			mailSvc = emailsvc.NewSendgridService(logger)
		}
	}

	gateway := attendance.NewGateway(attendance.GatewayOptions{
		Ledger:    ledger,
		Scope:     access.NewScope(dirSvc),
		Directory: dirSvc,
		Standing: attendance.StandingPolicy{
			Good:    conf.StandingGoodThreshold,
			Warning: conf.StandingWarningThreshold,
		},
		Mail:   mailSvc,
		Logger: logger,
	})

	// start API server
	var app echoapi.Server
	app = echoapi.NewServer(&echoapi.Options{
		Address: conf.ServerAddress(),
		Gateway: gateway,
		Logger:  logger,
		Shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()
			if err := app.Stop(ctx); err != nil {
				logger.Error("stopping server", err)
			}
		},
	})
	app.Start()
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
