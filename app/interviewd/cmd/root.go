package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "interviewd",
	Short: "Interview practice backend",
	Long: `Interviewd is the backend for interview practice sessions. A candidate
uploads a document such as a resume, then asks questions answered in the
candidate's own voice by a large language model. Each session keeps a bounded
conversation history so long interviews stay within request-size limits.`,
	PersistentPreRun: loadEnv,
}

func Execute() error {
	return rootCmd.Execute()
}

func loadEnv(_ *cobra.Command, _ []string) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}
