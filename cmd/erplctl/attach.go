package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var attachIgnore []string

var attachCmd = &cobra.Command{
	Use:   "attach <service-url>",
	Short: "enumerate a service document's entity sets as views",
	Args:  cobra.ExactArgs(1),
	RunE:  runAttach,
}

func init() {
	attachCmd.Flags().StringArrayVar(&attachIgnore, "ignore", nil, "glob pattern excluding matching entity sets (repeatable)")
}

func runAttach(cmd *cobra.Command, args []string) error {
	ctx, done := withTiming(cmd.Context())
	defer done()

	c := newClient()
	defer c.Close()

	result, err := c.Attach(ctx, args[0], authOverride(), flagSecret, attachIgnore)
	if err != nil {
		return err
	}
	for _, v := range result.Views {
		names := make([]string, len(v.Columns))
		for i, col := range v.Columns {
			names[i] = col.Name
		}
		fmt.Printf("%s\t%s\n", v.Name, strings.Join(names, ","))
	}
	fmt.Printf("-- %d view(s)\n", len(result.Views))
	return nil
}
