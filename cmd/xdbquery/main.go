// Command xdbquery looks up a single address against an xdb file and
// prints its region string, mirroring idanyas/sxgo/examples/simple: a
// thin entry point over the library, not part of the core itself (spec
// §1 places the core's public surface out of scope).
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	xdb "github.com/4ba-Co/ip2region"
)

func main() {
	app := &cli.App{
		Name:      "xdbquery",
		Usage:     "look up an IP address in an ip2region xdb file",
		ArgsUsage: "<ip-address>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "db",
				Aliases:  []string{"f"},
				Usage:    "path to the xdb index file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "policy",
				Usage: "cache policy: file, vectorindex, or content",
				Value: "vectorindex",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("expected exactly one IP address argument", 1)
	}

	policy, err := parsePolicy(c.String("policy"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	s, err := xdb.NewSearcher(policy, c.String("db"))
	if err != nil {
		return cli.Exit(fmt.Errorf("open %s: %w", c.String("db"), err), 1)
	}
	defer s.Close()

	region, err := s.SearchString(c.Args().First())
	if err != nil {
		return cli.Exit(fmt.Errorf("search: %w", err), 1)
	}
	if region == "" {
		fmt.Println("<no match>")
		return nil
	}

	fmt.Printf("%s\t(io_count=%d)\n", region, s.IOCount())
	return nil
}

func parsePolicy(s string) (xdb.Policy, error) {
	switch s {
	case "file":
		return xdb.PolicyFile, nil
	case "vectorindex":
		return xdb.PolicyVectorIndex, nil
	case "content":
		return xdb.PolicyContent, nil
	default:
		return 0, fmt.Errorf("unknown policy %q (want file, vectorindex, or content)", s)
	}
}
