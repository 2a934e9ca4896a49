package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/rolling_die/internal/config"
	"github.com/relabs-tech/rolling_die/internal/event"
)

func printPose(w io.Writer, p event.Pose) {
	roll, pitch, yaw := p.Pose.Degrees()
	fmt.Fprintf(w,
		"[POSE]  #%-4d ROLL=%8.2f  PITCH=%8.2f  YAW=%8.2f  %3.0f%%\n",
		p.Seq, roll, pitch, yaw, p.Progress*100,
	)
}

func printResult(w io.Writer, r event.Result) {
	fmt.Fprintf(w,
		"[FACE]  #%-4d face=%v after %d ticks at %s\n",
		r.Seq, r.Face, r.Ticks, r.RolledAt.Format("15:04:05.000"),
	)
}

func printState(w io.Writer, s event.State) {
	if s.Reason != "" {
		fmt.Fprintf(w, "[STATE] #%-4d %v (%s)\n", s.Seq, s.State, s.Reason)
		return
	}
	fmt.Fprintf(w, "[STATE] #%-4d %v target=%.3f rad\n", s.Seq, s.State, s.Session.TargetAngle)
}

// RunConsoleMQTT prints every pose, state and result the roller publishes.
func RunConsoleMQTT() error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	out := os.Stdout
	if err := subscribeJSON(client, "console", cfg.TopicPose, func(p event.Pose) { printPose(out, p) }); err != nil {
		return err
	}
	if err := subscribeJSON(client, "console", cfg.TopicState, func(s event.State) { printState(out, s) }); err != nil {
		return err
	}
	if err := subscribeJSON(client, "console", cfg.TopicResult, func(r event.Result) { printResult(out, r) }); err != nil {
		return err
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	return nil
}
