package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func TestNewManager(t *testing.T) {
	convey.Convey("Given the metrics manager", t, func() {
		convey.Convey("When creating one with a fresh registry", func() {
			registry := prometheus.NewRegistry()
			m := NewManager(WithRegistry(registry))

			convey.Convey("Then it should be constructed", func() {
				convey.So(m, convey.ShouldNotBeNil)
				convey.So(m.namespace, convey.ShouldEqual, "mdtodo")
				convey.So(m.subsystem, convey.ShouldEqual, "api")
			})

			convey.Convey("Then all metrics should be registered", func() {
				families, err := registry.Gather()
				convey.So(err, convey.ShouldBeNil)
				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				convey.So(names["mdtodo_api_todos_created_total"], convey.ShouldBeTrue)
				convey.So(names["mdtodo_api_todos_total"], convey.ShouldBeTrue)
				convey.So(names["mdtodo_api_validation_errors_total"], convey.ShouldBeTrue)
			})
		})

		convey.Convey("When overriding namespace and subsystem", func() {
			m := NewManager(
				WithRegistry(prometheus.NewRegistry()),
				WithNamespace("custom"),
				WithSubsystem("todos"),
			)

			convey.Convey("Then the options should apply", func() {
				convey.So(m.namespace, convey.ShouldEqual, "custom")
				convey.So(m.subsystem, convey.ShouldEqual, "todos")
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	convey.Convey("Given the global manager", t, func() {
		convey.Convey("When recording through the package helpers", func() {
			RecordTodoCreated()
			RecordTodoUpdated()
			RecordTodoDeleted()
			RecordTodoCompleted()
			UpdateTodosTotal(3)
			RecordHTTPRequest("todos", "GET", "200")
			RecordHTTPRequestDuration("todos", "GET", "200", 1.5)
			RecordValidationError()
			RecordStoreError()
			RecordErrorByEndpoint("todos", "POST", "client_error")

			convey.Convey("Then the registry should gather without error", func() {
				families, err := GetRegistry().Gather()
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(families), convey.ShouldBeGreaterThan, 0)
			})
		})
	})
}
