package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"gemini-chat/internal/config"
	"gemini-chat/internal/domain"
	"gemini-chat/internal/llm"
	"gemini-chat/internal/repository"
	"gemini-chat/internal/service"
)

func main() {
	username := flag.String("user", "", "username de la conversación")
	dryRun := flag.Bool("dry-run", false, "responde con un texto fijo sin llamar al LLM")
	flag.Parse()

	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()
	if *dryRun {
		_ = os.Setenv("LLM_PROVIDER", config.LLMProviderMock)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	messageRepo, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	generator, closeGenerator, err := llm.NewGenerator(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer closeGenerator()

	chatSvc := service.NewChatService(logger, messageRepo, generator, nil, service.ChatConfig{
		HistoryWindow: cfg.HistoryWindow,
		HistoryLimit:  cfg.HistoryLimit,
	})

	name := strings.TrimSpace(*username)
	for name == "" {
		fmt.Print("Username: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		name = strings.TrimSpace(line)
	}

	if err := printHistory(ctx, os.Stdout, chatSvc, name); err != nil {
		log.Printf("historial: %v", err)
	}
	fmt.Println("Escribe un mensaje. /history muestra el historial, /quit sale.")

	if err := runLoop(ctx, reader, os.Stdout, chatSvc, name); err != nil {
		log.Fatal(err)
	}
}

func runLoop(ctx context.Context, reader *bufio.Reader, out io.Writer, chatSvc *service.ChatService, username string) error {
	for {
		fmt.Fprint(out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		text := strings.TrimSpace(line)

		switch {
		case text == "/quit":
			return nil
		case text == "/history":
			if err := printHistory(ctx, out, chatSvc, username); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		case text != "":
			reply, chatErr := chatSvc.HandleChat(ctx, username, text)
			if chatErr != nil {
				fmt.Fprintf(out, "error (%s): %v\n", service.KindOf(chatErr), chatErr)
			} else {
				fmt.Fprintf(out, "model: %s\n", reply)
			}
		}

		if err == io.EOF {
			return nil
		}
	}
}

func printHistory(ctx context.Context, out io.Writer, chatSvc *service.ChatService, username string) error {
	messages, err := chatSvc.History(ctx, username)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		fmt.Fprintf(out, "(sin historial para %s)\n", username)
		return nil
	}
	for _, m := range messages {
		who := "tú"
		if m.Role != domain.RoleUser {
			who = "model"
		}
		fmt.Fprintf(out, "[%s] %s: %s\n", m.Timestamp.Local().Format("2006-01-02 15:04"), who, m.Text)
	}
	return nil
}
