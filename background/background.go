// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - run processes in background and wait for them
// to shut down cleanly
package background

// the shutdown and completed channels for one process
type shutdown struct {
	shutdown chan struct{}
	finished chan struct{}
}

// T - handle for later stopping the processes
type T struct {
	s []shutdown
}

// Process - interface for a background process
//
// Run is started as a goroutine and must return promptly after the
// shutdown channel is closed
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

// Start - run processes in the background
func Start(processes Processes, args interface{}) *T {

	register := new(T)
	register.s = make([]shutdown, len(processes))

	// start each background
	for i, p := range processes {
		shutdownChannel := make(chan struct{})
		finished := make(chan struct{})
		register.s[i].shutdown = shutdownChannel
		register.s[i].finished = finished
		go func(p Process, shutdown <-chan struct{}, finished chan<- struct{}) {
			p.Run(args, shutdown)
			close(finished)
		}(p, shutdownChannel, finished)
	}
	return register
}

// Stop - shut down all started processes and wait for them to finish
func (t *T) Stop() {

	if nil == t {
		return
	}

	// trigger shutdown of all background tasks
	for _, s := range t.s {
		close(s.shutdown)
	}

	// wait for finished
	for _, s := range t.s {
		<-s.finished
	}
}
