/*
Copyright © 2021 Billy G. Allie <bill.allie@defiant.mug.org>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bgallie/filters/ascii85"
	"github.com/bgallie/filters/flate"
	"github.com/bgallie/filters/lines"
	"github.com/bgallie/filters/pem"
	"github.com/bgallie/hexafid/engine"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	headerLinePrefix = "+HEXAFID"
	pemBlockType     = "HEXAFID Encrypted Message"
)

// pemHeaders maps the PEM header names to the settings they carry.
var pemHeaders = map[string]string{
	"Mode":      "mode",
	"Period":    "period",
	"Rounds":    "rounds",
	"Separator": "separator",
	"Preserve":  "preserve",
}

// envelope holds the cipher settings written in front of a ciphertext, either
// as PEM headers or as a header line.  settings is keyed by the viper key
// each value overrides.
type envelope struct {
	apiLevel    int
	settings    map[string]string
	ascii85     bool
	compression bool
}

func newEnvelope(modeName string, opts engine.Options) envelope {
	return envelope{
		apiLevel: hexafidApiLevel,
		settings: map[string]string{
			"mode":      modeName,
			"period":    strconv.Itoa(opts.Period),
			"rounds":    strconv.Itoa(opts.Rounds),
			"separator": strconv.FormatBool(opts.Separator),
			"preserve":  strconv.FormatBool(opts.Preserve),
		},
	}
}

// headerLine returns the line written before a text or ASCII85 ciphertext:
//	+HEXAFID|apiLevel|mode|period|rounds|preserve|a or t|compression
func (env envelope) headerLine() string {
	encoding := "t"
	if env.ascii85 {
		encoding = "a"
	}
	return fmt.Sprintf("%s|%d|%s|%s|%s|%s|%s|%v\n", headerLinePrefix, env.apiLevel,
		env.settings["mode"], env.settings["period"], env.settings["rounds"],
		env.settings["preserve"], encoding, env.compression)
}

func parseHeaderLine(line string) (envelope, error) {
	line = strings.TrimSpace(line)
	fields := strings.Split(line, "|")
	if len(fields) != 8 || fields[0] != headerLinePrefix {
		return envelope{}, errors.Errorf("malformed header line: [%s]", line)
	}

	var env envelope
	var err error
	if env.apiLevel, err = strconv.Atoi(fields[1]); err != nil {
		return envelope{}, errors.Wrapf(err, "malformed API level in header line [%s]", line)
	}
	for _, n := range fields[3:5] {
		if _, err = strconv.Atoi(n); err != nil {
			return envelope{}, errors.Wrapf(err, "malformed header line: [%s]", line)
		}
	}
	if _, err = strconv.ParseBool(fields[5]); err != nil {
		return envelope{}, errors.Wrapf(err, "malformed preserve flag in header line [%s]", line)
	}
	switch fields[6] {
	case "a":
		env.ascii85 = true
	case "t":
	default:
		return envelope{}, errors.Errorf("unknown encoding %q in header line", fields[6])
	}
	if env.compression, err = strconv.ParseBool(fields[7]); err != nil {
		return envelope{}, errors.Wrapf(err, "malformed compression flag in header line [%s]", line)
	}

	env.settings = map[string]string{
		"mode":     fields[2],
		"period":   fields[3],
		"rounds":   fields[4],
		"preserve": fields[5],
	}
	return env, nil
}

func (env envelope) pemBlock() pem.Block {
	blck := pem.Block{Type: pemBlockType, Headers: make(map[string]string)}
	for hdr, key := range pemHeaders {
		if v, ok := env.settings[key]; ok {
			blck.Headers[hdr] = v
		}
	}
	blck.Headers["Compression"] = strconv.FormatBool(env.compression)
	blck.Headers["ApiLevel"] = strconv.Itoa(env.apiLevel)
	return blck
}

// envelopeFromPem collects the settings present in the PEM headers.  A
// missing or unreadable ApiLevel header gives an API level of -1.
func envelopeFromPem(blck pem.Block) envelope {
	env := envelope{apiLevel: -1, settings: make(map[string]string)}
	for hdr, key := range pemHeaders {
		if v, ok := blck.Headers[hdr]; ok {
			env.settings[key] = v
		}
	}
	env.compression = blck.Headers["Compression"] == "true"
	if v, ok := blck.Headers["ApiLevel"]; ok {
		if level, err := strconv.Atoi(v); err == nil {
			env.apiLevel = level
		}
	}
	return env
}

// apply makes the envelope settings override the flags and config file.
func (env envelope) apply() {
	for key, v := range env.settings {
		viper.Set(key, v)
	}
}

// writeEnvelope writes ciphertext to w as a PEM block, or as text or ASCII85
// lines preceded by the header line unless withHeader is false.
func writeEnvelope(w io.Writer, ciphertext string, env envelope, usePem, withHeader bool) error {
	if usePem {
		_, err := io.Copy(w, pem.ToPem(bufio.NewReader(strings.NewReader(ciphertext)), env.pemBlock()))
		return err
	}

	if withHeader {
		if _, err := io.WriteString(w, env.headerLine()); err != nil {
			return err
		}
	}
	encIn := toPipe(strings.NewReader(ciphertext))
	var err error
	if env.ascii85 {
		_, err = io.Copy(w, lines.SplitToLines(ascii85.ToASCII85(encIn)))
	} else {
		_, err = io.Copy(w, lines.SplitToLines(encIn))
	}
	return err
}

// openEnvelope detects how the ciphertext in r was written and returns a
// reader of the ciphertext with the envelope found in front of it.  A bare
// ciphertext has an empty envelope at the current API level.
func openEnvelope(r io.Reader) (io.Reader, envelope, error) {
	env := envelope{apiLevel: hexafidApiLevel, settings: make(map[string]string)}
	bRdr := bufio.NewReader(r)
	b, err := bRdr.Peek(5)
	if err != nil && err != io.EOF {
		return nil, env, err
	}

	switch string(b) {
	case "-----":
		pRdr, blck := pem.FromPem(bRdr)
		return pRdr, envelopeFromPem(blck), nil
	case headerLinePrefix[:5]:
		line, err := bRdr.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, env, err
		}
		env, err = parseHeaderLine(line)
		if err != nil {
			return nil, env, err
		}
		if env.ascii85 {
			return ascii85.FromASCII85(lines.CombineLines(bRdr)), env, nil
		}
	}
	return bRdr, env, nil
}

// deflate compresses r when compress is set.
func deflate(r io.Reader, compress bool) io.Reader {
	if !compress {
		return r
	}
	return flate.ToFlate(r)
}

// inflate reverses deflate.
func inflate(r io.Reader, compressed bool) io.Reader {
	if !compressed {
		return r
	}
	return flate.FromFlate(r)
}
