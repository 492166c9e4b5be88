package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Example_basicUsage demonstrates basic metrics configuration.
func Example_basicUsage() {
	// Create a separate registry for this test
	testRegistry := prometheus.NewRegistry()
	registry := NewRegistry(testRegistry)

	// Example of accessing metrics
	registry.TasksScheduled.WithLabelValues("render_scheduler").Add(10)
	registry.TasksFired.WithLabelValues("render_scheduler").Add(8)
	registry.TasksCancelled.WithLabelValues("render_scheduler").Add(2)

	fmt.Println("Metrics updated successfully")

	// Output:
	// Metrics updated successfully
}

// Example_customRegistry demonstrates using a custom Prometheus registry.
func Example_customRegistry() {
	// Create a custom registry
	customRegistry := prometheus.NewRegistry()

	config := Config{
		Enabled:  true,
		Registry: customRegistry,
	}

	// Create metrics registry with custom config
	registry := NewRegistry(config.Registry)

	// Test the registry
	registry.CheckpointRegistrations.WithLabelValues("manual").Add(12)
	registry.CheckpointFirings.WithLabelValues("manual").Add(3)

	fmt.Printf("Custom registry enabled: %v\n", config.Enabled)
	fmt.Println("Custom registry configured with renderflow metrics")

	// Output:
	// Custom registry enabled: true
	// Custom registry configured with renderflow metrics
}

// Example_metricsServer demonstrates setting up a metrics HTTP server.
func Example_metricsServer() {
	// In a real application, you would start a metrics server:
	//
	// http.Handle("/metrics", promhttp.Handler())
	// log.Fatal(http.ListenAndServe(":8080", nil))
	//
	// Available metrics would include:
	// - renderflow_scheduler_tasks_scheduled_total{scheduler_name="render_scheduler"}
	// - renderflow_scheduler_tasks_fired_total{scheduler_name="render_scheduler"}
	// - renderflow_checkpoint_callbacks_fired_total{provider_name="frame_ticker"}
	// And many more...

	fmt.Println("Metrics available at /metrics endpoint")

	// Output:
	// Metrics available at /metrics endpoint
}

// Example_configuration demonstrates different metrics configurations.
func Example_configuration() {
	// Default configuration
	defaultConfig := DefaultConfig()
	fmt.Printf("Default enabled: %v\n", defaultConfig.Enabled)
	fmt.Printf("Default namespace: %s\n", defaultConfig.Namespace)

	// Custom configuration
	customConfig := Config{
		Enabled:   false,
		Namespace: "myapp",
	}
	fmt.Printf("Custom enabled: %v\n", customConfig.Enabled)
	fmt.Printf("Custom namespace: %s\n", customConfig.Namespace)

	// Output:
	// Default enabled: true
	// Default namespace: renderflow
	// Custom enabled: false
	// Custom namespace: myapp
}
