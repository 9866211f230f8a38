package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	blogWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_admin_writes_total",
		Help: "Blog write operations by operation and outcome.",
	}, []string{"operation", "outcome"})

	taxonomyCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_admin_taxonomy_created_total",
		Help: "Tags and categories created implicitly from blog forms.",
	}, []string{"kind"})

	imageOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_admin_image_operations_total",
		Help: "Featured image storage operations by operation and outcome.",
	}, []string{"operation", "outcome"})
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
