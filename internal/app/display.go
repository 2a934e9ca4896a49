package app

import (
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/rolling_die/internal/config"
	"github.com/relabs-tech/rolling_die/internal/die"
	"github.com/relabs-tech/rolling_die/internal/event"
	"github.com/relabs-tech/rolling_die/internal/roll"
)

const (
	displayW = 128
	displayH = 64

	// Face square on the left half of the screen.
	faceSize    = displayH
	faceCenter  = faceSize / 2
	pipSpread   = 22
	pipRadius   = 5
	progressTop = 44
)

// DisplayData holds the latest roller messages for the screen.
type DisplayData struct {
	mu sync.RWMutex

	state     roll.State
	haveState bool
	progress  float64

	result     event.Result
	haveResult bool
}

type displaySnapshot struct {
	state      roll.State
	haveState  bool
	progress   float64
	result     event.Result
	haveResult bool
}

func (d *DisplayData) snapshot() displaySnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return displaySnapshot{
		state:      d.state,
		haveState:  d.haveState,
		progress:   d.progress,
		result:     d.result,
		haveResult: d.haveResult,
	}
}

func (d *DisplayData) setState(s event.State) {
	d.mu.Lock()
	d.state, d.haveState = s.State, true
	if s.State == roll.Rolling {
		d.progress = s.Session.Progress()
	}
	d.mu.Unlock()
}

func (d *DisplayData) setPose(p event.Pose) {
	d.mu.Lock()
	d.progress = p.Progress
	d.mu.Unlock()
}

func (d *DisplayData) setResult(r event.Result) {
	d.mu.Lock()
	d.result, d.haveResult = r, true
	d.mu.Unlock()
}

func newDisplayImage() *image1bit.VerticalLSB {
	return image1bit.NewVerticalLSB(image.Rect(0, 0, displayW, displayH))
}

func drawLabel(img *image1bit.VerticalLSB, x, y int, text string) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

// renderDisplay draws one frame: a waiting screen, a progress bar while
// rolling, or the pips of the last face.
func renderDisplay(snap displaySnapshot) *image1bit.VerticalLSB {
	img := newDisplayImage()

	switch {
	case snap.haveState && snap.state == roll.Rolling:
		drawLabel(img, 20, 26, "Rolling...")
		drawProgress(img, snap.progress)
	case snap.haveResult:
		drawFace(img, snap.result.Face)
		drawLabel(img, faceSize+8, 26, fmt.Sprintf("Face %d", int(snap.result.Face)))
		drawLabel(img, faceSize+8, 43, fmt.Sprintf("#%d", snap.result.Seq))
	default:
		drawLabel(img, 10, 26, "Rolling Die")
		drawLabel(img, 10, 43, "Waiting...")
	}
	return img
}

func drawProgress(img *image1bit.VerticalLSB, progress float64) {
	progress = max(0, min(1, progress))
	const left, right, bottom = 4, displayW - 4, progressTop + 10
	fill := left + int(progress*float64(right-left))
	for x := left; x < right; x++ {
		img.SetBit(x, progressTop, image1bit.On)
		img.SetBit(x, bottom-1, image1bit.On)
	}
	for y := progressTop; y < bottom; y++ {
		img.SetBit(left, y, image1bit.On)
		img.SetBit(right-1, y, image1bit.On)
		for x := left; x < fill; x++ {
			img.SetBit(x, y, image1bit.On)
		}
	}
}

// drawFace draws the outline of a face and its pips. Pip Y points up,
// screen Y points down.
func drawFace(img *image1bit.VerticalLSB, f die.Face) {
	for i := 1; i < faceSize-1; i++ {
		img.SetBit(i, 1, image1bit.On)
		img.SetBit(i, faceSize-2, image1bit.On)
		img.SetBit(1, i, image1bit.On)
		img.SetBit(faceSize-2, i, image1bit.On)
	}
	for _, p := range f.Pips() {
		cx := faceCenter + int(p.X*2*pipSpread)
		cy := faceCenter - int(p.Y*2*pipSpread)
		for dy := -pipRadius; dy <= pipRadius; dy++ {
			for dx := -pipRadius; dx <= pipRadius; dx++ {
				if dx*dx+dy*dy <= pipRadius*pipRadius {
					img.SetBit(cx+dx, cy+dy, image1bit.On)
				}
			}
		}
	}
}

// RunDisplay mirrors the roller on an SSD1306 OLED.
func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	opts := ssd1306.DefaultOpts
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Println("display: initialized")

	data := &DisplayData{}
	if err := dev.Draw(dev.Bounds(), renderDisplay(data.snapshot()), image.Point{}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	if err := subscribeJSON(client, "display", cfg.TopicState, data.setState); err != nil {
		return err
	}
	if err := subscribeJSON(client, "display", cfg.TopicPose, data.setPose); err != nil {
		return err
	}
	if err := subscribeJSON(client, "display", cfg.TopicResult, data.setResult); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		img := renderDisplay(data.snapshot())
		if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}

	return nil
}
