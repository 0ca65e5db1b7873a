/*
Package hashtag selects the tag set attached to each upload.

Selection policy, in order of preference:

 1. A stored template exists: build a new variation that avoids every tag
    the template has served before (capped at 20 tags, padded from the
    template's base set when fewer than 20 unused tags remain). The served
    variation is recorded back onto the template.
 2. No template: ask the text-generation service for a fresh themed set.
 3. Anything fails, including the generation service being unreachable:
    serve the fixed, hard-coded dating-themed list.

The guarantee callers rely on: ForUpload always returns a non-empty list
and never propagates an error, regardless of collaborator health.

Generation goes through the Generator interface; OpenAIGenerator speaks
the OpenAI-compatible chat completions protocol and extracts #-prefixed
tokens from the model's free-form reply.
*/
package hashtag
