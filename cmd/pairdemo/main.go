// pairdemo drives a full LE Secure Connections pairing handshake between
// two in-process peers over simhci, standing in for a real
// central/peripheral pair over a real controller.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/rigado/blecore/ble"
	"github.com/rigado/blecore/bond"
	"github.com/rigado/blecore/simhci"
	"github.com/rigado/blecore/smp"
)

func main() {
	app := cli.NewApp()
	app.Name = "pairdemo"
	app.Usage = "run an LE Secure Connections Numeric Comparison / Just Works pairing handshake in-process"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "init-addr", Value: "11:22:33:44:55:66", Usage: "initiator's BD address"},
		cli.StringFlag{Name: "resp-addr", Value: "aa:bb:cc:dd:ee:ff", Usage: "responder's BD address"},
		cli.StringFlag{Name: "iocap", Value: "nio", Usage: "IO capability for both sides: nio, display, yesno"},
		cli.StringFlag{Name: "pairing", Value: "enabled", Usage: "responder pairing mode: enabled, disabled, once"},
		cli.StringFlag{Name: "bond-file", Value: "", Usage: "persist the resulting bond to this JSON file (optional)"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	initAddr, err := ble.ParseAddr(c.String("init-addr"), ble.AddrTypeRandom)
	if err != nil {
		return errors.Wrap(err, "parsing init-addr")
	}
	respAddr, err := ble.ParseAddr(c.String("resp-addr"), ble.AddrTypeRandom)
	if err != nil {
		return errors.Wrap(err, "parsing resp-addr")
	}

	ioCap, err := parseIOCap(c.String("iocap"))
	if err != nil {
		return err
	}
	pairing, err := parsePairingMode(c.String("pairing"))
	if err != nil {
		return err
	}

	respCfg := simhci.PeerConfig{Addr: respAddr, Pairing: pairing, IOCap: ioCap}
	if bf := c.String("bond-file"); bf != "" {
		respCfg.Bonds = bond.NewStore(bf)
	}

	h, err := simhci.NewHarness(
		simhci.PeerConfig{Addr: initAddr, Pairing: smp.PairingEnabled, IOCap: ioCap},
		respCfg,
	)
	if err != nil {
		return errors.Wrap(err, "building harness")
	}

	fmt.Printf("initiator %s pairing with responder %s\n", initAddr, respAddr)

	if err := h.StartPairing(); err != nil {
		return errors.Wrap(err, "pairing")
	}

	ltk, ok := h.Initiator.Prompt.LTKFor(respAddr)
	if !ok {
		return errors.New("pairing did not complete: no LTK derived")
	}

	fmt.Printf("numeric comparison code: %06d\n", h.Initiator.Prompt.LastCode())
	fmt.Printf("agreed long term key: %s\n", hex.EncodeToString(ltk))

	if bi, err := h.Responder.Bonds.Find(initAddr); err == nil {
		fmt.Printf("responder bonded %s, ltk %s\n", initAddr, hex.EncodeToString(bi.LongTermKey()))
	}

	return nil
}

func parseIOCap(s string) (uint8, error) {
	switch s {
	case "nio":
		return smp.IOCapNoInputNoOutput, nil
	case "display":
		return smp.IOCapDisplayOnly, nil
	case "yesno":
		return smp.IOCapDisplayYesNo, nil
	default:
		return 0, fmt.Errorf("unknown iocap %q", s)
	}
}

func parsePairingMode(s string) (smp.PairingMode, error) {
	switch s {
	case "enabled":
		return smp.PairingEnabled, nil
	case "disabled":
		return smp.PairingDisabled, nil
	case "once":
		return smp.PairingOnceThenDisable, nil
	default:
		return 0, fmt.Errorf("unknown pairing mode %q", s)
	}
}
