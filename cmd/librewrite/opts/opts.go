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

package opts

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/librewrite/pkg/config"
	"github.com/walteh/librewrite/pkg/log"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool
	Config     *config.Config
}

// 🎯 WithLogger adds a console logger writing to out to ctx
func (o *RootOpts) WithLogger(ctx context.Context, out io.Writer, verbose bool) context.Context {
	level := zerolog.Disabled
	if o.Debug {
		level = zerolog.DebugLevel
	}
	return log.NewContext(ctx, log.New(out, level, verbose))
}
