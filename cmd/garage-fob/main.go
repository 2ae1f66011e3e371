// garage-fob: key fob firmware for a CC1101-based garage door opener
//
// Brings the transceiver up over SPI, then transmits the configured fixed
// code once per button press (or immediately with -send). The radio
// configuration is read from a JSON file when one is given, otherwise the
// 315 MHz OOK defaults apply.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/sorianoartal/Door-Garage-Opener/pkg/cc1101"
	"github.com/sorianoartal/Door-Garage-Opener/pkg/config"
	"github.com/sorianoartal/Door-Garage-Opener/pkg/encoder"
	"github.com/sorianoartal/Door-Garage-Opener/pkg/spibus"
)

func main() {
	spiDev := flag.String("spi", "", "SPI port name (default: first registered port)")
	csnPin := flag.String("csn", "GPIO8", "chip select pin")
	readyPin := flag.String("ready", "GPIO9", "chip ready pin (SO while selected)")
	dataPin := flag.String("data", "GPIO25", "TX serial data pin (wired to GDO0)")
	buttonPin := flag.String("button", "GPIO17", "fob button pin")
	configFile := flag.String("config", "", "radio configuration JSON file")
	code := flag.String("code", "101001011", "fixed code bits, MSB first")
	sendOnce := flag.Bool("send", false, "transmit once and exit instead of waiting for the button")
	flag.Parse()
	defer glog.Flush()

	bits, err := parseCode(*code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Default315()
	if *configFile != "" {
		cfg, err = config.LoadFromFile(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if _, err := host.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: host init: %v\n", err)
		os.Exit(1)
	}

	port, err := spireg.Open(*spiDev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open SPI port: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	conn, err := port.Connect(500*physic.KiloHertz, spi.Mode0, 8)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: SPI connect: %v\n", err)
		os.Exit(1)
	}

	csn := mustPin(*csnPin)
	ready := mustPin(*readyPin)
	data := mustPin(*dataPin)

	bus := spibus.New(conn, csn, ready)
	trx := cc1101.New(bus, cfg)

	if err := trx.Begin(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: radio setup: %v\n", err)
		os.Exit(1)
	}

	enc := encoder.NewSC41344(data)
	if err := enc.Begin(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encoder setup: %v\n", err)
		os.Exit(1)
	}

	if *sendOnce {
		if err := trx.TransmitFrame(bits, enc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: transmit: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Code sent")
		return
	}

	button := mustPin(*buttonPin)
	if err := button.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		fmt.Fprintf(os.Stderr, "Error: button pin: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Ready, waiting for button on %s\n", button)
	for {
		if !button.WaitForEdge(-1) {
			continue
		}
		glog.V(1).Info("button pressed")
		if err := trx.TransmitFrame(bits, enc); err != nil {
			glog.Errorf("transmit failed: %v", err)
			continue
		}
		fmt.Println("Code sent")
	}
}

// parseCode turns a string of '0' and '1' characters into the bit slice the
// streamer consumes.
func parseCode(code string) ([]byte, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("empty code")
	}
	bits := make([]byte, len(code))
	for i, c := range code {
		switch c {
		case '0':
			bits[i] = 0
		case '1':
			bits[i] = 1
		default:
			return nil, fmt.Errorf("invalid code character %q at position %d", c, i)
		}
	}
	return bits, nil
}

func mustPin(name string) gpio.PinIO {
	pin := gpioreg.ByName(name)
	if pin == nil {
		fmt.Fprintf(os.Stderr, "Error: no such pin %q\n", name)
		os.Exit(1)
	}
	return pin
}
