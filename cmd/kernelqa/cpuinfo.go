// Copyright 2025 go-highway Authors
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

package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/viterin/vek/vek32"
	"golang.org/x/sys/cpu"

	"github.com/ajroetker/kernelqa/capability"
	"github.com/ajroetker/kernelqa/kernels/suite"
	"github.com/ajroetker/kernelqa/qa"
)

var cpuinfoCmd = &cobra.Command{
	Use:   "cpuinfo",
	Short: "Print detected CPU features and runnable implementations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		caps := capability.Detect()
		if len(mask) > 0 {
			m, err := capability.ParseFeatures(mask...)
			if err != nil {
				return err
			}
			caps = caps.Without(m)
		}
		printCPUInfo(cmd.OutOrStdout(), caps)
		return nil
	},
}

func printCPUInfo(w io.Writer, caps capability.Snapshot) {
	fmt.Fprintf(w, "GOOS: %s\n", runtime.GOOS)
	fmt.Fprintf(w, "GOARCH: %s\n", runtime.GOARCH)
	fmt.Fprintf(w, "NumCPU: %d\n", runtime.NumCPU())
	fmt.Fprintln(w)

	fmt.Fprintf(w, "kernelqa level: %s\n", caps.Level)
	fmt.Fprintf(w, "kernelqa width: %d bytes\n", caps.Width())
	fmt.Fprintf(w, "kernelqa features: %s\n", caps.Features)
	fmt.Fprintf(w, "%s: %v\n", capability.NoSimdEnvVar, capability.NoSimdEnv())
	fmt.Fprintln(w)

	switch runtime.GOARCH {
	case "arm64":
		printARM64Features(w)
	case "amd64":
		printAMD64Features(w)
	}

	info := vek32.Info()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "vek acceleration: %v [%s]\n", info.Acceleration, strings.Join(info.CPUFeatures, " "))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== runnable implementations ===")
	for _, k := range suite.Kernels() {
		desc := k.Descriptor()
		supported := lo.Map(desc.Supported(caps), func(impl qa.Implementation, _ int) string { return impl.Name })
		fmt.Fprintf(w, "  %-24s %d/%d  %s\n", k.Name(), len(supported), len(desc.Implementations), strings.Join(supported, " "))
	}
}

func printARM64Features(w io.Writer) {
	fmt.Fprintln(w, "=== golang.org/x/sys/cpu.ARM64 ===")
	fmt.Fprintf(w, "  HasASIMD:    %v (NEON baseline)\n", cpu.ARM64.HasASIMD)
	fmt.Fprintf(w, "  HasFP:       %v (Floating point)\n", cpu.ARM64.HasFP)
	fmt.Fprintf(w, "  HasFPHP:     %v (FP16 scalar, ARMv8.2-A)\n", cpu.ARM64.HasFPHP)
	fmt.Fprintf(w, "  HasASIMDHP:  %v (FP16 NEON, ARMv8.2-A)\n", cpu.ARM64.HasASIMDHP)
	fmt.Fprintf(w, "  HasSVE:      %v (Scalable Vector Extension)\n", cpu.ARM64.HasSVE)
	fmt.Fprintf(w, "  HasSVE2:     %v (SVE2)\n", cpu.ARM64.HasSVE2)
}

func printAMD64Features(w io.Writer) {
	fmt.Fprintln(w, "=== golang.org/x/sys/cpu.X86 ===")
	fmt.Fprintf(w, "  HasSSE2:     %v\n", cpu.X86.HasSSE2)
	fmt.Fprintf(w, "  HasSSE41:    %v\n", cpu.X86.HasSSE41)
	fmt.Fprintf(w, "  HasSSE42:    %v\n", cpu.X86.HasSSE42)
	fmt.Fprintf(w, "  HasAVX:      %v\n", cpu.X86.HasAVX)
	fmt.Fprintf(w, "  HasAVX2:     %v\n", cpu.X86.HasAVX2)
	fmt.Fprintf(w, "  HasFMA:      %v\n", cpu.X86.HasFMA)
	fmt.Fprintf(w, "  HasAVX512F:  %v\n", cpu.X86.HasAVX512F)
	fmt.Fprintf(w, "  HasAVX512BW: %v\n", cpu.X86.HasAVX512BW)
	fmt.Fprintf(w, "  HasAVX512VL: %v\n", cpu.X86.HasAVX512VL)
}
