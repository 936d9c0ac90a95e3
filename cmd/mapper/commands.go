// cmd/mapper/commands.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/tamzrod/modbus-mapper/internal/batch"
	"github.com/tamzrod/modbus-mapper/internal/codec"
	"github.com/tamzrod/modbus-mapper/internal/frame"
	"github.com/tamzrod/modbus-mapper/internal/schema"
	tmodbus "github.com/tamzrod/modbus-mapper/internal/transport/modbus"
	"github.com/tamzrod/modbus-mapper/internal/writer"
)

// ------------------------------------------------------------
// schema
// ------------------------------------------------------------

func runSchema(args []string) error {
	a, err := load(args[0])
	if err != nil {
		return err
	}
	return printSchema(os.Stdout, a.schema)
}

func printSchema(w io.Writer, s *schema.Schema) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "record %s\tendianness=%s\tbool_repr=%s\n", s.Record(), s.Endianness(), s.BoolRepr())
	fmt.Fprintln(tw, "FIELD\tTYPE\tADDRESS\tREGISTER\tSIZE")
	for _, fd := range s.Fields() {
		kind := fd.Kind.String()
		if fd.Kind == schema.Enum {
			kind += "(" + fd.EnumBase.String() + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", fd.Name, kind, fd.Address, fd.RegisterAddress(), fd.Size)
	}
	fmt.Fprintf(tw, "start=%d\tsize=%d\tregisters=%d\n", s.StartAddress(), s.TotalSize(), s.RegisterCount())

	return tw.Flush()
}

// ------------------------------------------------------------
// read
// ------------------------------------------------------------

func runRead(args []string) error {
	fs := flag.NewFlagSet("read", flag.ContinueOnError)
	asCoils := fs.Bool("coils", false, "read bool fields from coils instead of registers")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("read: config required")
	}

	a, err := load(fs.Arg(0))
	if err != nil {
		return err
	}

	cli, err := a.dial()
	if err != nil {
		return err
	}
	defer cli.Close()

	fb := frame.NewBuilder(a.codec)
	names := fs.Args()[1:]

	if *asCoils {
		return readCoils(cli, fb, names)
	}

	// whole record
	if len(names) == 0 {
		raw, err := cli.Read(fb.ReadRecord())
		if err != nil {
			return err
		}
		vals, err := a.codec.Decode(raw)
		if err != nil {
			return err
		}
		printValues(a.schema, vals, false)
		return nil
	}

	// selected fields, one request each
	for _, name := range names {
		ref := schema.FieldName(name)
		req, err := fb.ReadField(ref)
		if err != nil {
			return err
		}
		raw, err := cli.Read(req)
		if err != nil {
			return err
		}
		v, err := a.codec.DecodeField(ref, raw)
		if err != nil {
			return err
		}
		fmt.Printf("%s=%s\n", name, v)
	}
	return nil
}

func readCoils(cli *tmodbus.Client, fb *frame.Builder, names []string) error {
	// whole record: one read over every boolean field
	if len(names) == 0 {
		req, err := fb.ReadBitRecord()
		if err != nil {
			return err
		}
		bits, err := cli.ReadBits(req)
		if err != nil {
			return err
		}
		vals, err := fb.Codec().DecodeBits(bits)
		if err != nil {
			return err
		}
		printValues(fb.Codec().Schema(), vals, true)
		return nil
	}

	for _, name := range names {
		req, err := fb.ReadBitField(schema.FieldName(name))
		if err != nil {
			return err
		}
		bits, err := cli.ReadBits(req)
		if err != nil {
			return err
		}
		fmt.Printf("%s=%s\n", name, codec.Bool(bits[0]))
	}
	return nil
}

func printValues(s *schema.Schema, vals codec.Values, boolsOnly bool) {
	for _, fd := range s.Fields() {
		if boolsOnly && !fd.IsBool() {
			continue
		}
		v, _ := vals.Value(fd.Name)
		fmt.Printf("%s=%s\n", fd.Name, v)
	}
}

// ------------------------------------------------------------
// write
// ------------------------------------------------------------

func runWrite(args []string) error {
	fs := flag.NewFlagSet("write", flag.ContinueOnError)
	asCoils := fs.Bool("coils", false, "deliver bool fields as coils instead of registers")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return errors.New("write: config and at least one name=value required")
	}

	a, err := load(fs.Arg(0))
	if err != nil {
		return err
	}

	regs, coils, err := a.planWrite(fs.Args()[1:], *asCoils)
	if err != nil {
		return err
	}

	cli, err := a.dial()
	if err != nil {
		return err
	}
	defer cli.Close()

	frames := regs.BuildOptimized()
	bits := coils.BuildOptimized()

	log.Info().
		Int("writes", regs.Count()+coils.Count()).
		Int("frames", len(frames)+len(bits)).
		Msg("writing")

	return writer.New(writer.BuildPlan(a.cfg), cli).Write(frames, bits)
}

// planWrite parses name=value pairs into pending register writes and,
// with asCoils, coil writes for the boolean fields.
func (a *app) planWrite(pairs []string, asCoils bool) (*batch.Builder, *batch.Coils, error) {
	regs := batch.NewBuilder(a.codec)
	bools := codec.NewValuesBuilder()

	for _, kv := range pairs {
		name, text, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, nil, fmt.Errorf("write: %q is not name=value", kv)
		}
		ref := schema.FieldName(name)
		fd, err := a.schema.Field(ref)
		if err != nil {
			return nil, nil, err
		}
		v, err := codec.ParseValue(fd, text)
		if err != nil {
			return nil, nil, err
		}

		if asCoils && fd.IsBool() {
			bools.Set(ref, v)
			continue
		}
		if err := regs.Write(ref, v); err != nil {
			return nil, nil, err
		}
	}

	coils := batch.NewCoils().Add(frame.NewBuilder(a.codec).CoilFrames(bools.Build())...)
	return regs, coils, nil
}

func (a *app) dial() (*tmodbus.Client, error) {
	return tmodbus.Dial(tmodbus.Config{
		Endpoint: a.cfg.Device.Endpoint,
		UnitID:   a.cfg.Device.UnitID,
		Timeout:  a.cfg.Device.Timeout(),
	})
}
