package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erpl-go/erpl"
)

var (
	httpBody        string
	httpContentType string
)

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "issue a generic HTTP request through the shared transport",
}

func init() {
	get := httpSubcommand("get")
	head := httpSubcommand("head")
	post := httpSubcommand("post")
	put := httpSubcommand("put")
	patch := httpSubcommand("patch")
	del := httpSubcommand("delete")
	for _, c := range []*cobra.Command{post, put, patch} {
		c.Flags().StringVar(&httpBody, "body", "", "request body")
		c.Flags().StringVar(&httpContentType, "content-type", "application/json", "request Content-Type")
	}
	httpCmd.AddCommand(get, head, post, put, patch, del)
}

func httpSubcommand(method string) *cobra.Command {
	return &cobra.Command{
		Use:   method + " <url>",
		Short: "http " + method,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHTTP(cmd, method, args[0])
		},
	}
}

func runHTTP(cmd *cobra.Command, method, url string) error {
	ctx, done := withTiming(cmd.Context())
	defer done()

	c := newClient()
	defer c.Close()

	opts := erpl.HttpOptions{
		Auth:       authOverride(),
		SecretName: flagSecret,
		Timeout:    flagTimeout,
	}

	var (
		result *erpl.HttpResult
		err    error
	)
	switch method {
	case "get":
		result, err = c.HttpGet(ctx, url, opts)
	case "head":
		result, err = c.HttpHead(ctx, url, opts)
	case "post":
		opts.ContentType = httpContentType
		result, err = c.HttpPost(ctx, url, []byte(httpBody), opts)
	case "put":
		opts.ContentType = httpContentType
		result, err = c.HttpPut(ctx, url, []byte(httpBody), opts)
	case "patch":
		opts.ContentType = httpContentType
		result, err = c.HttpPatch(ctx, url, []byte(httpBody), opts)
	case "delete":
		result, err = c.HttpDelete(ctx, url, opts)
	}

	if result != nil {
		fmt.Printf("%s %s -> %d\n", result.Method, result.URL, result.Status)
		os.Stdout.Write(result.Content)
		fmt.Println()
	}
	return err
}
