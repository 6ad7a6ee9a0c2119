/*
Copyright © 2024 Alexandre Pires

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/a13labs/m3uflat/cli/cmd"
	"github.com/a13labs/m3uflat/pkg/logger"
	"github.com/a13labs/m3uflat/pkg/m3uparser"
	"github.com/a13labs/m3uflat/pkg/m3uprovider"

	"github.com/spf13/cobra"
)

const stdinSource = "-"

type options struct {
	baseDir    string
	charset    string
	expand     bool
	format     string
	outputFile string
	appendFile bool
}

var opts options

var parseCmd = &cobra.Command{
	Use:   "parse <source>",
	Short: "Parse a playlist and print its entries",
	Long: `Parse a playlist from a local path, a file URL, an http(s) URL or "-" for
standard input, and write the entries as M3U or JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], opts)
	},
}

func load(stdin io.Reader, source string, o options) (m3uparser.Entries, error) {
	parser := m3uparser.NewParser(m3uparser.WithDiagnostics(logger.Diagnostics()))

	if source != stdinSource {
		return m3uprovider.Load(m3uprovider.ProviderConfig{
			Source:  source,
			Charset: o.charset,
			BaseDir: o.baseDir,
			Expand:  o.expand,
		}, parser)
	}

	enc, err := m3uparser.LookupCharset(o.charset)
	if err != nil {
		return nil, err
	}
	entries, err := parser.ParseReader(m3uparser.NewDecodingReader(stdin, enc), o.baseDir)
	if err != nil {
		return nil, err
	}
	if o.expand {
		entries = parser.ExpandNested(entries, enc)
	}
	return entries, nil
}

func render(entries m3uparser.Entries, format string, withHeader bool) ([]byte, error) {
	switch format {
	case "m3u":
		if withHeader {
			return []byte(entries.String()), nil
		}
		return []byte(entries.EntriesString()), nil
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format %q, expected m3u or json", format)
	}
}

var ErrAppendJSON = errors.New("--append only works with --format m3u")

func run(stdin io.Reader, stdout io.Writer, source string, o options) error {
	// A second JSON array appended to a file is not valid JSON.
	if o.appendFile && o.format == "json" {
		return ErrAppendJSON
	}

	entries, err := load(stdin, source, o)
	if err != nil {
		return fmt.Errorf("error loading playlist: %w", err)
	}

	if o.outputFile == "stdout" || o.outputFile == "" {
		content, err := render(entries, o.format, true)
		if err != nil {
			return err
		}
		_, err = stdout.Write(content)
		return err
	}

	logger.Infof("Writing playlist to %s with %d entries.", o.outputFile, len(entries))

	// Appending to an existing M3U file must not repeat the header.
	withHeader := true
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if o.appendFile {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		if info, err := os.Stat(o.outputFile); err == nil && info.Size() > 0 {
			withHeader = false
		}
	}

	content, err := render(entries, o.format, withHeader)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(o.outputFile, flags, 0644)
	if err != nil {
		return fmt.Errorf("error opening output file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(content); err != nil {
		return fmt.Errorf("error writing to output file: %w", err)
	}
	return nil
}

func init() {
	cmd.RootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&opts.baseDir, "base", "b", "", "Directory for relative entries of remote or stdin playlists")
	parseCmd.Flags().StringVar(&opts.charset, "charset", "", "Playlist charset (default UTF-8)")
	parseCmd.Flags().BoolVarP(&opts.expand, "expand", "e", false, "Expand nested local playlists")
	parseCmd.Flags().StringVarP(&opts.format, "format", "f", "m3u", "Output format (m3u, json)")
	parseCmd.Flags().StringVarP(&opts.outputFile, "output", "o", "stdout", "Output file")
	parseCmd.Flags().BoolVarP(&opts.appendFile, "append", "a", false, "Append to output file (m3u format only)")
}
