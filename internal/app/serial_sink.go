// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"log"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/rolling_die/internal/event"
)

// OpenSerialSink opens the serial port that announces results to an
// external board (LED matrix, buzzer, ...). Each result is one line:
//
//	FACE <n> SEQ <seq>\r\n
func OpenSerialSink(portName string, baudRate int) (io.WriteCloser, error) {
	serialOpts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	log.Printf("serial: port opened on %s at %d baud", serialOpts.PortName, serialOpts.BaudRate)
	return port, nil
}

// writeFace writes one result line.
func writeFace(w io.Writer, res event.Result) error {
	_, err := fmt.Fprintf(w, "FACE %d SEQ %d\r\n", int(res.Face), res.Seq)
	return err
}
