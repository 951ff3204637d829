package core

import (
	"context"
	"runtime/debug"
)

// Reply receives the outcome of the task it follows.
type Reply func(ctx context.Context, err error)

// ReplyWithResult receives the value and outcome of the producer it follows.
type ReplyWithResult[T any] func(ctx context.Context, result T, err error)

// PostTaskAndReply runs work on target, then posts reply to replyRunner with work's
// error. The reply runs at the priority work had when it finished.
//
// The reply is posted even when work fails: err is the returned error, or a
// *TaskExecutionError when work panicked. If replyRunner is closed by then, the reply is
// dropped and reported to its RejectedTaskHandler. A nil replyRunner posts work alone.
func PostTaskAndReply(target *QueuedTaskRunner, work Runnable, reply Reply, replyRunner *QueuedTaskRunner) (*Task, error) {
	if work == nil {
		return nil, ErrNilTask
	}
	if replyRunner == nil || reply == nil {
		return target.PostTask(work)
	}

	t := newTask(resolveTaskName(work, ""), nil, target.DefaultPriority())
	t.body = func(ctx context.Context) (err error) {
		defer replyAfter(ctx, &t.taskBase, &err, replyRunner, reply)
		return work(ctx)
	}
	if err := target.enqueue(t); err != nil {
		return nil, err
	}
	return t, nil
}

// PostProducerTaskAndReply runs fn on target, then posts reply to replyRunner with
// fn's result. See PostTaskAndReply.
//
// Example:
//
//	PostProducerTaskAndReply(
//	    background,
//	    func(ctx context.Context) (int, error) {
//	        return len("Hello"), nil
//	    },
//	    func(ctx context.Context, length int, err error) {
//	        fmt.Printf("Length: %d\n", length)
//	    },
//	    ui,
//	)
func PostProducerTaskAndReply[T any](target *QueuedTaskRunner, fn Producer[T], reply ReplyWithResult[T], replyRunner *QueuedTaskRunner) (*ProducerTask[T], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	if replyRunner == nil || reply == nil {
		return PostProducerTask(target, fn)
	}

	t := newProducerTask[T](resolveTaskName(fn, ""), nil, target.DefaultPriority())
	t.body = func(ctx context.Context) (result T, err error) {
		defer replyAfter(ctx, &t.taskBase, &err, replyRunner, func(ctx context.Context, err error) {
			reply(ctx, result, err)
		})
		return fn(ctx)
	}
	if err := target.enqueue(t); err != nil {
		return nil, err
	}
	return t, nil
}

// replyAfter is deferred by the wrapped body. It posts the reply with *errp, or with a
// *TaskExecutionError if the body is panicking, and then lets the panic continue so the
// task itself is recorded as panicked.
func replyAfter(ctx context.Context, b *taskBase, errp *error, replyRunner *QueuedTaskRunner, reply Reply) {
	rec := recover()
	err := *errp
	if rec != nil {
		err = &TaskExecutionError{TaskID: b.id, Name: b.name, Panic: rec, Stack: debug.Stack()}
	}

	_, _ = replyRunner.PostTaskNamedWithPriority(b.name+".reply", func(ctx context.Context) error {
		reply(ctx, err)
		return nil
	}, PriorityFromContext(ctx, replyRunner.DefaultPriority()))

	if rec != nil {
		panic(rec)
	}
}
