// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package patch

import (
	"context"
)

// 🏷️ Op identifies what happened to a single entry
type Op int

const (
	OpCopy   Op = iota // entry copied, source kept
	OpMove             // entry copied as part of a move
	OpRemove           // source removed after a successful move
)

func (o Op) String() string {
	switch o {
	case OpCopy:
		return "copy"
	case OpMove:
		return "move"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// 📣 Event describes one transferred or removed entry
type Event struct {
	Op          Op
	Source      string
	Destination string
	IsDir       bool
	Overwrote   bool // destination existed and was replaced
}

// 👀 Observer receives an Event for every entry a Copy or Move touches.
// Directories are reported only when a move removes them.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(ctx context.Context, ev Event)

func (f ObserverFunc) Observe(ctx context.Context, ev Event) {
	f(ctx, ev)
}

// 🔧 Option configures a Directory
type Option func(*Directory)

// WithObserver registers an observer for transfer events.
func WithObserver(o Observer) Option {
	return func(d *Directory) {
		d.observer = o
	}
}

type nopObserver struct{}

func (nopObserver) Observe(context.Context, Event) {}
