// Command blendtable prints the render state each rendering mode configures
// and can check that scene files build.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/gogpu/gputypes"
	"github.com/milk9111/rendererupdate/blend"
	"github.com/milk9111/rendererupdate/ecs"
	"github.com/milk9111/rendererupdate/ecs/component"
	"github.com/milk9111/rendererupdate/ecs/entity"
	"github.com/milk9111/rendererupdate/prefabs"
	"golang.design/x/clipboard"
)

func main() {
	modeName := flag.String("mode", "", "only print this mode")
	gpu := flag.Bool("gpu", false, "include the WebGPU blend state")
	copyOut := flag.Bool("copy", false, "also copy the table to the clipboard")
	check := flag.String("check", "", `comma separated scene files to build, or "all" for every embedded prefab`)
	flag.Parse()

	if *check != "" {
		paths := strings.Split(*check, ",")
		if *check == "all" {
			all, err := prefabs.Scenes()
			if err != nil {
				log.Fatal(err)
			}
			paths = scenesOnly(all)
		}
		failed := false
		for _, path := range paths {
			if err := checkScene(os.Stdout, strings.TrimSpace(path)); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				failed = true
			}
		}
		if failed {
			os.Exit(1)
		}
		return
	}

	modes := blend.Modes()
	if *modeName != "" {
		m, err := blend.ParseMode(*modeName)
		if err != nil {
			log.Fatal(err)
		}
		modes = []blend.Mode{m}
	}

	var buf bytes.Buffer
	if err := writeTable(&buf, modes, *gpu); err != nil {
		log.Fatal(err)
	}
	if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
		log.Fatal(err)
	}

	if *copyOut {
		if err := clipboard.Init(); err != nil {
			log.Fatalf("clipboard: %v", err)
		}
		clipboard.Write(clipboard.FmtText, buf.Bytes())
	}
}

func writeTable(w io.Writer, modes []blend.Mode, gpu bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := "MODE\tSRC\tDST\tZWRITE\tKEYWORDS\tQUEUE"
	if gpu {
		header += "\tGPU BLEND"
	}
	fmt.Fprintln(tw, header)

	for _, m := range modes {
		p, err := blend.Configure(m)
		if err != nil {
			return err
		}
		queue := "auto"
		if p.HasRenderQueue() {
			queue = fmt.Sprint(p.RenderQueue)
		}
		row := fmt.Sprintf("%s\t%s\t%s\t%t\t%s\t%s", m, p.Src, p.Dst, p.DepthWrite, p.Keywords, queue)
		if gpu {
			row += "\t" + describeGPU(p.BlendState())
		}
		fmt.Fprintln(tw, row)
	}
	return tw.Flush()
}

func describeGPU(s *gputypes.BlendState) string {
	if s == nil {
		return "disabled"
	}
	return fmt.Sprintf("color(%v,%v,%v) alpha(%v,%v,%v)",
		s.Color.SrcFactor, s.Color.DstFactor, s.Color.Operation,
		s.Alpha.SrcFactor, s.Alpha.DstFactor, s.Alpha.Operation)
}

// checkScene builds path into an empty world with no-op callbacks for every
// name the scene uses.
func checkScene(out io.Writer, path string) error {
	w := ecs.NewWorld()
	_, names, err := entity.LoadScene(w, path, anyCallback{})
	if err != nil {
		return err
	}

	renderers := len(w.Query(component.MaterialComponent.Kind()))
	updates := len(w.Query(component.RendererUpdateComponent.Kind()))
	fmt.Fprintf(out, "%s: ok (%d named, %d renderers, %d renderer updates)\n", path, len(names), renderers, updates)
	return nil
}

// anyCallback accepts every callback name.
type anyCallback struct{}

func (anyCallback) Lookup(string) (component.Callback, bool) {
	return func(component.Finish) {}, true
}

// scenesOnly drops entity prefabs, which have no entities list.
func scenesOnly(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		scene, err := prefabs.LoadSceneSpec(p)
		if err != nil || len(scene.Entities) == 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}
