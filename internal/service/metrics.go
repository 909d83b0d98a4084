package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	assembliesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aeromessage_assemblies_total",
		Help: "Completed unread-conversation assembly cycles.",
	})
	decodeFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aeromessage_decode_failures_total",
		Help: "attributedBody blobs that yielded no text payload.",
	})
	sendAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aeromessage_send_attempts_total",
		Help: "Outbound send attempts by outcome.",
	}, []string{"outcome"})
)
