package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/arcsignal/reactor/cmd/codegen/templates"
	"github.com/urfave/cli/v3"
)

const (
	typesKey  = "types"
	outDirKey = "out"
	pkgKey    = "pkg"
)

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "generate non-generic Signal/Computed wrapper types",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  typesKey,
				Usage: "comma-separated Name:GoType pairs, e.g. Int:int,Str:string",
				Value: "Int:int,Float64:float64,String:string,Bool:bool",
			},
			&cli.StringFlag{
				Name:  outDirKey,
				Usage: "directory to write generated files into",
				Value: "typed",
			},
			&cli.StringFlag{
				Name:  pkgKey,
				Usage: "package name for generated files",
				Value: "typed",
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func parseSpecs(raw string) []templates.TypeSpec {
	var specs []templates.TypeSpec
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			continue
		}
		specs = append(specs, templates.TypeSpec{Name: parts[0], GoType: parts[1]})
	}
	return specs
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Printf("codegen started")
	defer func() {
		log.Printf("codegen finished in %v", time.Since(start))
	}()

	specs := parseSpecs(cmd.String(typesKey))
	pkg := cmd.String(pkgKey)
	outDir := cmd.String(outDirKey)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	signalSrc := templates.SignalWrappersGen(pkg, specs)
	if err := os.WriteFile(outDir+"/signals_generated.go", []byte(signalSrc), 0644); err != nil {
		return err
	}

	computedSrc := templates.ComputedWrappersGen(pkg, specs)
	if err := os.WriteFile(outDir+"/computed_generated.go", []byte(computedSrc), 0644); err != nil {
		return err
	}

	log.Printf("wrote %d type wrappers to %s", len(specs), outDir)
	return nil
}
