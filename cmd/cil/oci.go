package main

import (
	"fmt"

	"github.com/matsen/citelink/internal/oci"
	"github.com/spf13/cobra"
)

func init() {
	ociCmd.AddCommand(ociEncodeCmd)
	ociCmd.AddCommand(ociDecodeCmd)
	ociCmd.AddCommand(ociResolveCmd)
	ociCmd.AddCommand(ociSuppliersCmd)
	rootCmd.AddCommand(ociCmd)
}

var ociCmd = &cobra.Command{
	Use:   "oci",
	Short: "Encode, decode, and resolve Open Citation Identifiers",
}

var ociEncodeCmd = &cobra.Command{
	Use:   "encode <supplier> <citing> <cited>",
	Short: "Encode a citing/cited identifier pair into an OCI",
	Long: `Encode a citing/cited identifier pair into an OCI.

Example:
  cil oci encode wikidata Q42 Q7`,
	Args: cobra.ExactArgs(3),
	RunE: runOCIEncode,
}

var ociDecodeCmd = &cobra.Command{
	Use:   "decode <code>",
	Short: "Decode an OCI back into its identifiers",
	Args:  cobra.ExactArgs(1),
	RunE:  runOCIDecode,
}

var ociResolveCmd = &cobra.Command{
	Use:   "resolve <code>",
	Short: "Print the OpenCitations resolver URL for an OCI",
	Args:  cobra.ExactArgs(1),
	RunE:  runOCIResolve,
}

var ociSuppliersCmd = &cobra.Command{
	Use:   "suppliers",
	Short: "List the registered OCI suppliers",
	Args:  cobra.NoArgs,
	RunE:  runOCISuppliers,
}

// OCIResponse describes one encoded or decoded identifier.
type OCIResponse struct {
	Code     string `json:"oci"`
	Citing   string `json:"citing"`
	Cited    string `json:"cited"`
	Kind     string `json:"kind"`
	Supplier string `json:"supplier"`
}

func runOCIEncode(cmd *cobra.Command, args []string) error {
	supplier, citing, cited := args[0], args[1], args[2]
	code, err := oci.Encode(supplier, citing, cited)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	decoded, err := oci.Decode(code)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Println(code)
	} else {
		outputJSON(OCIResponse{
			Code:     code,
			Citing:   decoded.Citing,
			Cited:    decoded.Cited,
			Kind:     string(decoded.Kind),
			Supplier: decoded.Supplier,
		})
	}
	return nil
}

func runOCIDecode(cmd *cobra.Command, args []string) error {
	decoded, err := oci.Decode(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Citing:   %s\n", decoded.Citing)
		fmt.Printf("Cited:    %s\n", decoded.Cited)
		fmt.Printf("Kind:     %s\n", decoded.Kind)
		fmt.Printf("Supplier: %s\n", decoded.Supplier)
	} else {
		outputJSON(OCIResponse{
			Code:     args[0],
			Citing:   decoded.Citing,
			Cited:    decoded.Cited,
			Kind:     string(decoded.Kind),
			Supplier: decoded.Supplier,
		})
	}
	return nil
}

func runOCIResolve(cmd *cobra.Command, args []string) error {
	url, err := oci.ResolveURL(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		fmt.Println(url)
	} else {
		outputJSON(map[string]string{"oci": args[0], "url": url})
	}
	return nil
}

func runOCISuppliers(cmd *cobra.Command, args []string) error {
	suppliers := oci.Suppliers()

	if humanOutput {
		for _, s := range suppliers {
			fmt.Printf("%-10s prefix %s  (%s)\n", s.Name, s.Prefix, s.Kind)
		}
	} else {
		type entry struct {
			Name   string `json:"name"`
			Prefix string `json:"prefix"`
			Kind   string `json:"kind"`
		}
		out := make([]entry, len(suppliers))
		for i, s := range suppliers {
			out[i] = entry{Name: s.Name, Prefix: s.Prefix, Kind: string(s.Kind)}
		}
		outputJSON(out)
	}
	return nil
}
