// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"log"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/cpv/acf"
	"v.io/x/lib/cmdline"
)

// runFlags are the flags shared by all subcommands.
type runFlags struct {
	lags        *string
	scoreCol    *int
	region      *string
	parallelism *int
	rejectNaN   *bool
}

func addRunFlags(cmd *cmdline.Command) runFlags {
	return runFlags{
		lags: cmd.Flags.String("d", acf.DefaultOpts.LagSpec, `start:stop:step of distance.  The default checks the
correlation at distances [15, 65, 115, ..., 465].`),
		scoreCol:    cmd.Flags.Int("c", acf.DefaultOpts.ScoreCol, "1-based column holding the value to take the ACF of"),
		region:      cmd.Flags.String("region", acf.DefaultOpts.Region, "Restrict input to <chrom>:<1-based first pos>-<last pos>, <chrom>:<1-based pos>, or <chrom>"),
		parallelism: cmd.Flags.Int("parallelism", acf.DefaultOpts.Parallelism, "Maximum number of files scanned at once during estimation; 0 = runtime.NumCPU()"),
		rejectNaN:   cmd.Flags.Bool("reject-nan", acf.DefaultOpts.RejectNaN, "Fail the adjustment if a lag bin has no correlation estimate, instead of treating it as uncorrelated"),
	}
}

func (f runFlags) opts() acf.Opts {
	return acf.Opts{
		LagSpec:     *f.lags,
		ScoreCol:    *f.scoreCol,
		Region:      *f.region,
		Parallelism: *f.parallelism,
		RejectNaN:   *f.rejectNaN,
	}
}

func newCmdACF() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "acf",
		Short:    "Print the binned autocorrelation of BED scores",
		ArgsName: "bedpath...",
	}
	flags := addRunFlags(cmd)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) == 0 {
			return env.UsageErrorf("acf takes at least one bed path")
		}
		opts := flags.opts()
		return acf.Run(vcontext.Background(), argv, &opts, env.Stdout, nil)
	})
	return cmd
}

func newCmdAdjust() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "adjust",
		Short: "Adjust BED p-values for spatial autocorrelation",
		Long: `
adjust first estimates the autocorrelation as "cpv acf" does and prints the
table to stderr.  It then prints one line per input interval to stdout:
chrom, start, end, p-value, and the Stouffer-Liptak combination of the
p-values within the largest lag of the interval.`,
		ArgsName: "bedpath...",
	}
	flags := addRunFlags(cmd)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) == 0 {
			return env.UsageErrorf("adjust takes at least one bed path")
		}
		opts := flags.opts()
		return acf.Run(vcontext.Background(), argv, &opts, env.Stderr, env.Stdout)
	})
	return cmd
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "cpv",
			Short:    "Spatial autocorrelation and adjustment of interval p-values",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdACF(),
				newCmdAdjust(),
			},
		})
}
