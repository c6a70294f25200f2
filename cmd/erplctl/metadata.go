package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata <metadata-url>",
	Short: "fetch and dump a service's EDM $metadata document",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetadata,
}

func runMetadata(cmd *cobra.Command, args []string) error {
	ctx, done := withTiming(cmd.Context())
	defer done()

	c := newClient()
	defer c.Close()

	edmx, err := c.Metadata(ctx, args[0], authOverride(), flagSecret)
	if err != nil {
		return err
	}
	for _, schema := range edmx.DataServices {
		fmt.Printf("schema %s\n", schema.Namespace)
		for _, et := range schema.EntityTypes {
			fmt.Printf("  entity %s\n", et.Name)
			for _, p := range et.Properties {
				fmt.Printf("    %s %s\n", p.Name, p.TypeName)
			}
		}
		for _, container := range schema.EntityContainers {
			for _, es := range container.EntitySets {
				fmt.Printf("  entitySet %s -> %s\n", es.Name, es.EntityTypeName)
			}
		}
	}
	return nil
}
