// fob-dump-regs: dump the CC1101 configuration register space
//
// Connects to the chip over SPI, resets and configures it, then prints every
// configuration register, the PA table and the chip status. Useful for
// checking what a board actually runs versus what the profile says.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/sorianoartal/Door-Garage-Opener/pkg/cc1101"
	"github.com/sorianoartal/Door-Garage-Opener/pkg/config"
	"github.com/sorianoartal/Door-Garage-Opener/pkg/profiles"
	"github.com/sorianoartal/Door-Garage-Opener/pkg/registers"
	"github.com/sorianoartal/Door-Garage-Opener/pkg/spibus"
)

func main() {
	spiDev := flag.String("spi", "", "SPI port name (default: first registered port)")
	csnPin := flag.String("csn", "GPIO8", "chip select pin")
	readyPin := flag.String("ready", "GPIO9", "chip ready pin (SO while selected)")
	skipSetup := flag.Bool("raw", false, "dump without resetting or configuring first")
	flag.Parse()
	defer glog.Flush()

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

	csn := gpioreg.ByName(*csnPin)
	ready := gpioreg.ByName(*readyPin)
	if csn == nil || ready == nil {
		fmt.Fprintln(os.Stderr, "Error: unknown control pin")
		os.Exit(1)
	}

	bus := spibus.New(conn, csn, ready)
	trx := cc1101.New(bus, config.Default315())

	if *skipSetup {
		if err := bus.Begin(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: bus setup: %v\n", err)
			os.Exit(1)
		}
	} else if err := trx.Begin(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: radio setup: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration registers:")
	for i := 0; i < profiles.Settings315OOK.Len(); i++ {
		setting, err := profiles.Settings315OOK.At(i)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		result, err := bus.ReadRegister(setting.Addr)
		if err != nil {
			fmt.Printf("  0x%02X: read failed: %v\n", setting.Addr, err)
			continue
		}
		marker := ""
		if result.Value != setting.Value {
			marker = fmt.Sprintf("  (profile: 0x%02X)", setting.Value)
		}
		fmt.Printf("  0x%02X: 0x%02X%s\n", setting.Addr, result.Value, marker)
	}

	table, err := trx.ReadPATable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: PA table read: %v\n", err)
	} else {
		fmt.Printf("PA table: % 02X\n", table[:])
	}

	status, err := trx.Status()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: status read: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(status)

	part, _ := bus.ReadRegister(registers.RegPARTNUM)
	version, _ := bus.ReadRegister(registers.RegVERSION)
	fmt.Printf("PARTNUM: 0x%02X, VERSION: 0x%02X\n", part.Value, version.Value)
}
