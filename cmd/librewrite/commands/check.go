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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/librewrite/cmd/librewrite/opts"
	"github.com/walteh/librewrite/pkg/log"
	"github.com/walteh/librewrite/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates the command that compiles a rule script without touching any library
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	var script string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compile a rule script and list its rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("script") {
				o.Config.Script = script
			}
			if o.Config.Script == "" {
				return errors.New("no rule script given, use --script or set script in the config file")
			}

			ctx := o.WithLogger(cmd.Context(), cmd.OutOrStdout(), false)
			logger := log.FromContext(ctx)

			rs, err := rules.Load(ctx, o.Config.Script)
			if err != nil {
				return err
			}

			table, err := renderRules(rs)
			if err != nil {
				return err
			}

			logger.Header("checking " + rs.Source())
			logger.Print(table + "\n")
			logger.Successf("%d rules compiled", rs.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&script, "script", "s", "", "rule script of Pat:/Rep: lines")

	return cmd
}
